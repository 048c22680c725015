package security

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
)

const CharsetUTF8 = "utf-8"

// NormalizeCharset lower-cases the name and applies the utf-8 default.
func NormalizeCharset(charset string) string {
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" || charset == "utf8" {
		return CharsetUTF8
	}
	return charset
}

func lookupEncoding(charset string) (encoding.Encoding, error) {
	switch NormalizeCharset(charset) {
	case CharsetUTF8:
		return nil, nil
	case "gbk", "gb2312":
		return simplifiedchinese.GBK, nil
	case "gb18030":
		return simplifiedchinese.GB18030, nil
	default:
		return nil, fmt.Errorf("security: unsupported charset %q", charset)
	}
}

// EncodeString converts text into the byte representation used for signing
// and encryption under charset.
func EncodeString(text string, charset string) ([]byte, error) {
	enc, err := lookupEncoding(charset)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return []byte(text), nil
	}
	encoded, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("security: encode %s: %w", NormalizeCharset(charset), err)
	}
	return encoded, nil
}

func DecodeBytes(data []byte, charset string) (string, error) {
	enc, err := lookupEncoding(charset)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return string(data), nil
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("security: decode %s: %w", NormalizeCharset(charset), err)
	}
	return string(decoded), nil
}
