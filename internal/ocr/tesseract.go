package ocr

import (
	"github.com/otiai10/gosseract/v2"
	"github.com/pkg/errors"

	"github.com/ironsheep/netpbm-tools/internal/imaging"
	"github.com/ironsheep/netpbm-tools/internal/netpbm"
)

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// Options configure a Tesseract run.
type Options struct {
	// Language is a Tesseract language code such as "eng" or "deu+fra".
	// Empty means DefaultLanguage.
	Language string

	// Whitelist restricts recognition to these characters when set.
	Whitelist string

	// TessdataPrefix overrides the directory holding *.traineddata files.
	TessdataPrefix string
}

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// TextRegion represents a word or text block with its location and OCR confidence.
type TextRegion struct {
	// Text is the recognized text content.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box around this text in the image.
	Bounds Bounds `json:"bounds"`
}

// OCRResult contains the complete results of text extraction from an image.
type OCRResult struct {
	// FullText is all recognized text as a single string with original spacing/newlines.
	FullText string `json:"full_text"`

	// Regions contains individual words with their bounding boxes and confidence scores.
	// May be empty if bounding box extraction fails (text will still be in FullText).
	Regions []TextRegion `json:"regions"`
}

// newClient returns a Tesseract client with img loaded.
//
// Leptonica reads binary netpbm natively, so the image is handed over in its
// own format without a temporary file. Samples are first rescaled to 8 bits
// at full range, which every Leptonica build accepts.
func newClient(img *netpbm.Image, opts Options) (*gosseract.Client, error) {
	data, err := encodeForOCR(img)
	if err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	if opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(opts.TessdataPrefix); err != nil {
			client.Close()
			return nil, errors.Wrap(err, "failed to set tessdata path")
		}
	}
	lang := opts.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to set language")
	}
	if opts.Whitelist != "" {
		if err := client.SetWhitelist(opts.Whitelist); err != nil {
			client.Close()
			return nil, errors.Wrap(err, "failed to set whitelist")
		}
	}
	if err := client.SetImageFromBytes(data); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "failed to set image")
	}
	return client, nil
}

func encodeForOCR(img *netpbm.Image) ([]byte, error) {
	if img.Variant != netpbm.Bitmap && (img.Depth != netpbm.Eight || img.Max() != 255) {
		img = img.ConvertDepth(netpbm.Eight)
	}
	data, err := netpbm.Encode(img, netpbm.Binary)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode image for OCR")
	}
	return data, nil
}

// ExtractText performs OCR on an entire image and returns recognized text.
//
// # Word-Level Results
//
// The Regions field provides word-level granularity using Tesseract's RIL_WORD
// iterator level. Empty words are filtered out. If word-level bounding box
// extraction fails, the full text is still returned with an empty Regions
// slice.
func ExtractText(img *netpbm.Image, opts Options) (*OCRResult, error) {
	client, err := newClient(img, opts)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	text, err := client.Text()
	if err != nil {
		return nil, errors.Wrap(err, "OCR failed")
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return &OCRResult{
			FullText: text,
			Regions:  []TextRegion{},
		}, nil
	}

	regions := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		regions = append(regions, TextRegion{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds:     boundsOf(box),
		})
	}

	return &OCRResult{
		FullText: text,
		Regions:  regions,
	}, nil
}

// ExtractTextFromRegion performs OCR on a rectangular region of img.
//
// The returned bounding boxes are in the coordinates of the original image:
// if the region starts at (100, 50) and a word is found at (10, 20) within
// it, the word's bounds start at (110, 70).
func ExtractTextFromRegion(img *netpbm.Image, r imaging.Region, opts Options) (*OCRResult, error) {
	cropped, err := imaging.Crop(img, r)
	if err != nil {
		return nil, err
	}

	result, err := ExtractText(cropped, opts)
	if err != nil {
		return nil, err
	}

	for i := range result.Regions {
		result.Regions[i].Bounds = result.Regions[i].Bounds.offset(r.X1, r.Y1)
	}
	return result, nil
}

// DetectTextRegionsResult contains text region locations without the actual text content.
type DetectTextRegionsResult struct {
	Regions []TextRegionBox `json:"regions"`
	Count   int             `json:"count"`
}

// TextRegionBox represents a detected text region's location without its content.
type TextRegionBox struct {
	Bounds     Bounds  `json:"bounds"`
	Confidence float64 `json:"confidence"`
}

// DetectTextRegions finds paragraph-like text blocks (RIL_BLOCK) without
// returning their text. Blocks below minConfidence (0.0 to 1.0) are dropped.
func DetectTextRegions(img *netpbm.Image, minConfidence float64, opts Options) (*DetectTextRegionsResult, error) {
	client, err := newClient(img, opts)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get text regions")
	}

	regions := make([]TextRegionBox, 0)
	for _, box := range boxes {
		confidence := float64(box.Confidence) / 100.0
		if confidence < minConfidence {
			continue
		}
		regions = append(regions, TextRegionBox{
			Bounds:     boundsOf(box),
			Confidence: confidence,
		})
	}

	return &DetectTextRegionsResult{
		Regions: regions,
		Count:   len(regions),
	}, nil
}

func boundsOf(box gosseract.BoundingBox) Bounds {
	return Bounds{
		X1: box.Box.Min.X,
		Y1: box.Box.Min.Y,
		X2: box.Box.Max.X,
		Y2: box.Box.Max.Y,
	}
}

func (b Bounds) offset(dx, dy int) Bounds {
	return Bounds{X1: b.X1 + dx, Y1: b.Y1 + dy, X2: b.X2 + dx, Y2: b.Y2 + dy}
}
