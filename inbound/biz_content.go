package inbound

import (
	"encoding/xml"
	"strings"

	"github.com/goliatone/go-lifegateway/core"
)

// BizContent is the parsed biz_content document of a life-account callback.
// Pointer fields are nil when the element is missing.
type BizContent struct {
	XMLName     xml.Name  `xml:"XML"`
	AppID       *string   `xml:"AppId"`
	FromUserID  *string   `xml:"FromUserId"`
	CreateTime  *string   `xml:"CreateTime"`
	MsgType     *string   `xml:"MsgType"`
	EventType   *string   `xml:"EventType"`
	ActionParam *string   `xml:"ActionParam"`
	AgreementID *string   `xml:"AgreementId"`
	AccountNo   *string   `xml:"AccountNo"`
	UserInfo    *string   `xml:"UserInfo"`
	Text        *TextBody `xml:"Text"`
}

type TextBody struct {
	Content string `xml:"Content"`
}

// ParseBizContent decodes raw into a BizContent. The root element must be XML.
func ParseBizContent(raw string) (BizContent, error) {
	var content BizContent
	if strings.TrimSpace(raw) == "" {
		return content, kindBadInput.new("inbound: biz_content is empty", nil)
	}
	if err := xml.Unmarshal([]byte(raw), &content); err != nil {
		return BizContent{}, kindBadInput.wrap(err, "inbound: biz_content is malformed", nil)
	}
	return content, nil
}

func (b BizContent) FromUser() string {
	return deref(b.FromUserID)
}

func (b BizContent) TextContent() string {
	if b.Text == nil {
		return ""
	}
	return b.Text.Content
}

func (b BizContent) Action() string {
	return deref(b.ActionParam)
}

// Resolve derives the action key of req. A missing biz_content leaves the
// message components absent; a malformed one is a bad input error.
func Resolve(req core.InboundRequest) (core.ActionKey, error) {
	key := core.ActionKey{Service: componentFromParam(req, core.ParamService)}
	raw, ok := req.Param(core.ParamBizContent)
	if !ok || strings.TrimSpace(raw) == "" {
		return key, nil
	}
	content, err := ParseBizContent(raw)
	if err != nil {
		return key, err
	}
	key.MsgType = component(content.MsgType)
	key.EventType = component(content.EventType)
	key.ActionParam = component(content.ActionParam)
	return key, nil
}

func componentFromParam(req core.InboundRequest, name string) core.Component {
	value, ok := req.Param(name)
	if !ok {
		return core.Absent()
	}
	return core.Present(value)
}

func component(value *string) core.Component {
	if value == nil {
		return core.Absent()
	}
	return core.Present(strings.TrimSpace(*value))
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
