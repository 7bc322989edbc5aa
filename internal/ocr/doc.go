// Package ocr extracts text from images with a two-stage pipeline.
//
// The pipeline provisions two named models (text detection and text
// recognition), builds an inference Engine from them, and then runs, strictly
// in order:
//
//  1. Decode the image and convert it to an interleaved RGB Input
//  2. Detect word-level regions
//  3. Group the words into text lines
//  4. Recognize each line; lines without a result are dropped
//  5. Join the non-empty lines with "\n", top-to-bottom
//
// Nothing is cached between calls: every RecognizeText call loads the models
// and builds a fresh engine.
//
// # Tesseract Engine
//
// The bundled engine is backed by Tesseract through gosseract/v2. The
// detection model is Tesseract's orientation and script data
// (osd.traineddata), used with automatic page segmentation; the recognition
// model is a language file such as eng.traineddata, used one line at a time.
// Both files must live in the same directory, which is handed to Tesseract
// as its tessdata prefix.
//
// # Prerequisites
//
// The Tesseract shared library must be installed on the system:
//   - Ubuntu/Debian: apt-get install libtesseract-dev
//   - macOS: brew install tesseract
//
// The model files themselves are downloaded on first use and need no
// system packages.
package ocr
