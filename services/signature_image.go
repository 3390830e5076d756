package services

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/phpdave11/gofpdf"
	_ "golang.org/x/image/webp"
)

// decodeSignatureImage turns a data URL or bare base64 payload into PNG
// bytes gofpdf can embed. Any format the image package can decode is
// accepted and re-encoded.
func decodeSignatureImage(data string) ([]byte, error) {
	payload := strings.TrimSpace(data)
	if strings.HasPrefix(payload, "data:") {
		i := strings.IndexByte(payload, ',')
		if i < 0 {
			return nil, fmt.Errorf("%w: data URL has no payload", ErrImageEmbed)
		}
		payload = payload[i+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64: %v", ErrImageEmbed, err)
		}
	}

	mt := mimetype.Detect(raw)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, fmt.Errorf("%w: payload is %s", ErrImageEmbed, mt.String())
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrImageEmbed, mt.String(), err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: encode png: %v", ErrImageEmbed, err)
	}
	return buf.Bytes(), nil
}

// fitSignature scales a pxW by pxH image to width w, keeping its aspect
// ratio, and shrinks it further when the height would exceed maxH.
func fitSignature(pxW, pxH int, w, maxH float64) (float64, float64) {
	if pxW <= 0 || pxH <= 0 {
		return w, maxH
	}
	h := w * float64(pxH) / float64(pxW)
	if h > maxH {
		return maxH * float64(pxW) / float64(pxH), maxH
	}
	return w, h
}

// embedSignature places the signature image at (x, y) within a w by maxH box
// without distorting it, and returns the height drawn.
func embedSignature(c Canvas, name, data string, x, y, w, maxH float64) (float64, error) {
	png, err := decodeSignatureImage(data)
	if err != nil {
		return 0, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(png))
	if err != nil {
		return 0, fmt.Errorf("%w: read size: %v", ErrImageEmbed, err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	if info := c.RegisterImageOptionsReader(name, opts, bytes.NewReader(png)); info == nil {
		return 0, fmt.Errorf("%w: %s was not registered", ErrImageEmbed, name)
	}
	dw, dh := fitSignature(cfg.Width, cfg.Height, w, maxH)
	c.ImageOptions(name, x, y, dw, dh, false, opts, 0, "")
	return dh, nil
}
