// Package ocr extracts text from netpbm images using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). Images are
// passed to Tesseract in memory as binary netpbm, which its Leptonica image
// library reads natively, so no temporary files are written.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// A different tessdata directory can be selected with Options.TessdataPrefix.
//
// # Supported Languages
//
// The default language is English ("eng"). Other languages can be specified
// using their Tesseract language codes, e.g. "deu", "fra" or "chi_sim";
// several are joined with "+".
//
// # Functions
//
//   - ExtractText: Full-image OCR, returns all text with word bounding boxes
//   - ExtractTextFromRegion: OCR on a specific rectangular region
//   - DetectTextRegions: Find text blocks without returning their text
//
// # Performance Considerations
//
// OCR is computationally expensive. Crop to regions of interest first when
// possible. Scanned line art usually recognizes best as a bitmap.
package ocr
