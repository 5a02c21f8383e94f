package smtpgw

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// extractTextFromMessage extracts the text content from a mail message.
// For multipart messages it collects the text/plain parts.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	contentType := msg.Header.Get("Content-Type")

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return readPart(msg.Body, msg.Header.Get("Content-Transfer-Encoding"), charsetOf(params))
	}

	boundary, ok := params["boundary"]
	if !ok {
		return readPart(msg.Body, msg.Header.Get("Content-Transfer-Encoding"), charsetOf(params))
	}

	var text bytes.Buffer
	mr := multipart.NewReader(msg.Body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed part ends extraction; keep whatever was gathered
			break
		}

		partType, partParams, err := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if err != nil || !strings.HasPrefix(partType, "text/plain") {
			continue
		}

		content, err := readPart(part, part.Header.Get("Content-Transfer-Encoding"), charsetOf(partParams))
		if err != nil {
			continue
		}
		text.WriteString(content)
		text.WriteString("\n")
	}

	return text.String(), nil
}

// readPart decodes one body or part according to its transfer encoding and
// charset.
func readPart(r io.Reader, transferEncoding string, charset string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(transferEncoding)) {
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		r = quotedprintable.NewReader(r)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	return decodeCharset(data, charset), nil
}

// decodeCharset converts non-UTF-8 text to UTF-8 using the IANA charset
// registry. Unknown charsets pass through unchanged.
func decodeCharset(data []byte, charset string) string {
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "us-ascii") {
		return string(data)
	}

	enc, err := ianaindex.MIME.Encoding(charset)
	if err != nil || enc == nil {
		return string(data)
	}

	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}

	return string(decoded)
}

func charsetOf(params map[string]string) string {
	if params == nil {
		return ""
	}
	return params["charset"]
}
