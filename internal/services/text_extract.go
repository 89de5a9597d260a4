package services

import (
  "bytes"
  "fmt"
  "io"
  "strings"

  pdf "github.com/ledongthuc/pdf"
)

// ExtractText determines the true file type from bytes (sniffing, not the
// filename) and extracts plain text. Uploads are PDF-only, but a plaintext
// fallback keeps the worker honest about mislabeled objects.
func ExtractText(originalName string, data []byte) (string, error) {
  if len(data) == 0 {
    return "", fmt.Errorf("empty file: name=%s", originalName)
  }

  if isPDF(data) {
    return extractPDF(data)
  }

  if isProbablyText(data) {
    return collapseWhitespace(string(data)), nil
  }

  return "", fmt.Errorf("unsupported file type: name=%s head=%s", originalName, firstBytesHex(data, 16))
}

func isPDF(b []byte) bool {
  // PDF starts with "%PDF-"
  return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isProbablyText(b []byte) bool {
  sample := b
  if len(sample) > 2048 {
    sample = sample[:2048]
  }
  if len(sample) == 0 {
    return false
  }
  good := 0
  for _, c := range sample {
    if c == 0x00 {
      return false
    }
    if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c < 0x7f) || c >= 0x80 {
      good++
    }
  }
  // allow some binary noise
  return float64(good)/float64(len(sample)) > 0.9
}

func extractPDF(data []byte) (string, error) {
  r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
  if err != nil {
    return "", fmt.Errorf("pdf reader: %w", err)
  }
  plain, err := r.GetPlainText()
  if err != nil {
    return "", fmt.Errorf("pdf plaintext: %w", err)
  }
  b, err := io.ReadAll(plain)
  if err != nil {
    return "", fmt.Errorf("pdf read: %w", err)
  }
  text := collapseWhitespace(string(b))
  if text == "" {
    return "", fmt.Errorf("pdf contained no extractable text")
  }
  return text, nil
}

func collapseWhitespace(s string) string {
  s = strings.ReplaceAll(s, "\u00a0", " ")
  fields := strings.Fields(s)
  return strings.Join(fields, " ")
}

func firstBytesHex(b []byte, n int) string {
  if len(b) < n {
    n = len(b)
  }
  const hexdigits = "0123456789abcdef"
  out := make([]byte, 0, n*2)
  for i := 0; i < n; i++ {
    out = append(out, hexdigits[b[i]>>4], hexdigits[b[i]&0x0f])
  }
  return string(out)
}
