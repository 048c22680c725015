package security

import (
	"context"
	"strings"

	"github.com/goliatone/go-lifegateway/core"
)

// SignatureVerifier authenticates inbound callbacks with the platform public
// key under a fixed algorithm.
type SignatureVerifier struct {
	PublicKey string
	Charset   string
	SignType  string
}

func NewSignatureVerifier(publicKey string, charset string, signType string) *SignatureVerifier {
	return &SignatureVerifier{
		PublicKey: publicKey,
		Charset:   charset,
		SignType:  strings.ToUpper(strings.TrimSpace(signType)),
	}
}

// Verify returns a SignatureInvalid error for every failure. The configured
// charset always applies; a charset parameter in the request is only part of
// the signed payload. A declared sign_type must match the configured algorithm.
func (v *SignatureVerifier) Verify(_ context.Context, req core.InboundRequest) error {
	if v == nil {
		return core.NewSignatureInvalidError("signature verifier is not configured", nil)
	}
	signType := strings.ToUpper(strings.TrimSpace(v.SignType))
	if signType == "" {
		signType = SignTypeRSA2
	}
	if declared, ok := req.Param(core.ParamSignType); ok && strings.TrimSpace(declared) != "" {
		if strings.ToUpper(strings.TrimSpace(declared)) != signType {
			return core.NewSignatureInvalidError("declared sign_type does not match configured algorithm", nil)
		}
	}
	if sign, ok := req.Param(core.ParamSign); !ok || strings.TrimSpace(sign) == "" {
		return core.NewSignatureInvalidError("sign parameter is missing", nil)
	}
	if err := Verify(req.Params(), v.PublicKey, v.Charset, signType); err != nil {
		return core.NewSignatureInvalidError("callback signature verification failed", err)
	}
	return nil
}
