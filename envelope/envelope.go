// Package envelope wraps executor bodies in the signed and optionally
// encrypted XML document returned to the platform.
package envelope

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/goliatone/go-lifegateway/core"
	"github.com/goliatone/go-lifegateway/security"
)

// EncryptionMarker is the platform's literal encryption_type value.
const EncryptionMarker = "AES"

type Options struct {
	PlatformPublicKey string
	AppPrivateKey     string
	Charset           string
	Encrypt           bool
	Sign              bool
	SignType          string
}

func (o Options) charset() string {
	return security.NormalizeCharset(o.Charset)
}

func (o Options) signType() string {
	signType := strings.ToUpper(strings.TrimSpace(o.SignType))
	if signType == "" {
		return security.SignTypeRSA2
	}
	return signType
}

// Build produces the response document for body. When encrypting, the
// signature covers the ciphertext. Crypto failures never fall back to an
// unprotected body.
func Build(body string, opts Options) (string, error) {
	charset := opts.charset()
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="`)
	builder.WriteString(charset)
	builder.WriteString(`"?>`)

	if !opts.Encrypt && !opts.Sign {
		builder.WriteString(body)
		return builder.String(), nil
	}

	content := body
	if opts.Encrypt {
		cipherText, err := security.Encrypt(body, opts.PlatformPublicKey, charset)
		if err != nil {
			return "", core.NewEnvelopeBuildError("envelope: encrypt response", err)
		}
		content = cipherText
	}

	builder.WriteString("<alipay><response>")
	builder.WriteString(content)
	builder.WriteString("</response>")
	if opts.Encrypt {
		builder.WriteString("<encryption_type>")
		builder.WriteString(EncryptionMarker)
		builder.WriteString("</encryption_type>")
	}
	if opts.Sign {
		signType := opts.signType()
		signature, err := security.Sign(content, opts.AppPrivateKey, charset, signType)
		if err != nil {
			return "", core.NewEnvelopeBuildError("envelope: sign response", err)
		}
		builder.WriteString("<sign>")
		builder.WriteString(signature)
		builder.WriteString("</sign><sign_type>")
		builder.WriteString(signType)
		builder.WriteString("</sign_type>")
	}
	builder.WriteString("</alipay>")
	return builder.String(), nil
}

// Document is a parsed envelope.
type Document struct {
	Response       string
	EncryptionType string
	Sign           string
	SignType       string
	Plain          bool
}

// OpenKeys are the counterpart keys needed to read an envelope.
type OpenKeys struct {
	AppPublicKey       string
	PlatformPrivateKey string
	Charset            string
}

// Parse splits an envelope into its parts without checking it. A body not
// wrapped in <alipay> is reported as Plain.
func Parse(envelope string) (Document, error) {
	rest := strings.TrimSpace(envelope)
	if strings.HasPrefix(rest, "<?xml") {
		end := strings.Index(rest, "?>")
		if end < 0 {
			return Document{}, core.NewBadInputError("envelope: xml declaration is unterminated", nil)
		}
		rest = rest[end+2:]
	}
	if !strings.HasPrefix(rest, "<alipay>") {
		return Document{Response: rest, Plain: true}, nil
	}
	const openTag, closeTag = "<alipay><response>", "</response>"
	end := strings.LastIndex(rest, closeTag)
	if !strings.HasPrefix(rest, openTag) || end < len(openTag) {
		return Document{}, core.NewBadInputError("envelope: response element is missing", nil)
	}
	doc := Document{Response: rest[len(openTag):end]}
	tail := rest[end+len(closeTag):]
	doc.EncryptionType, _ = between(tail, "<encryption_type>", "</encryption_type>")
	doc.Sign, _ = between(tail, "<sign>", "</sign>")
	doc.SignType, _ = between(tail, "<sign_type>", "</sign_type>")
	return doc, nil
}

// Open verifies and decrypts envelope with the keys paired to those used by
// Build, returning the original body.
func Open(envelope string, keys OpenKeys) (string, error) {
	doc, err := Parse(envelope)
	if err != nil {
		return "", err
	}
	if doc.Plain {
		return doc.Response, nil
	}
	charset := security.NormalizeCharset(keys.Charset)
	if doc.Sign != "" {
		if err := security.VerifyContent(doc.Response, doc.Sign, keys.AppPublicKey, charset, doc.SignType); err != nil {
			return "", core.NewSignatureInvalidError("envelope: response signature is invalid", err)
		}
	}
	if doc.EncryptionType == "" {
		return doc.Response, nil
	}
	plain, err := security.Decrypt(doc.Response, keys.PlatformPrivateKey, charset)
	if err != nil {
		return "", core.WrapBadInputError(err, "envelope: response cannot be decrypted", map[string]any{"charset": charset})
	}
	return plain, nil
}

// WellFormed reports whether envelope parses as a single XML document once
// the declaration is accounted for.
func WellFormed(envelope string) bool {
	decoder := xml.NewDecoder(strings.NewReader(envelope))
	decoder.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }
	for {
		if _, err := decoder.Token(); err != nil {
			return err == io.EOF
		}
	}
}

func between(source string, openTag string, closeTag string) (string, bool) {
	start := strings.Index(source, openTag)
	if start < 0 {
		return "", false
	}
	start += len(openTag)
	end := strings.Index(source[start:], closeTag)
	if end < 0 {
		return "", false
	}
	return source[start : start+end], true
}
