// Package receipt extracts the payable total from a photographed receipt
// so it can be recorded as an expense without retyping.
package receipt

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// ExtractAmount runs OCR over the image at path and returns the detected
// total in whole currency units. Returns ErrNoAmount when nothing on the
// receipt looks like a monetary total.
func ExtractAmount(path string) (float64, error) {
	texts, err := runOCRPasses(path)
	if err != nil {
		return 0, fmt.Errorf("ocr: %w", err)
	}
	var best float64
	var found bool
	for _, text := range texts {
		amt, err := ParseTotal(text)
		if err != nil {
			continue
		}
		if amt > best {
			best = amt
			found = true
		}
	}
	if !found {
		return 0, ErrNoAmount
	}
	return best, nil
}

// runOCRPasses OCRs the raw image and a cleaned-up variant; receipts photos
// vary enough that one pass alone misses totals the other catches.
func runOCRPasses(path string) ([]string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	var texts []string
	if err := client.SetImage(path); err != nil {
		return nil, err
	}
	if text, err := client.Text(); err == nil {
		texts = append(texts, text)
	}

	cleaned, err := preprocessed(path)
	if err == nil {
		defer os.Remove(cleaned)
		if err := client.SetImage(cleaned); err == nil {
			if text, err := client.Text(); err == nil {
				texts = append(texts, text)
			}
		}
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("no readable text in %s", filepath.Base(path))
	}
	return texts, nil
}

// preprocessed writes a grayscale, upscaled, contrast-boosted copy next to
// the original and returns its path.
func preprocessed(path string) (string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}
	gray := imaging.Grayscale(img)
	if gray.Bounds().Dx() < 1200 {
		gray = imaging.Resize(gray, 1200, 0, imaging.Lanczos)
	}
	gray = imaging.AdjustContrast(gray, 30)
	out := path + ".prep.png"
	if err := imaging.Save(gray, out); err != nil {
		return "", err
	}
	return out, nil
}
