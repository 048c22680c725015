package executor

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const (
	MsgTypeImageText = "image-text"
	MsgTypeText      = "text"
)

// BuildAck renders the synchronous acknowledgement returned to the platform.
func BuildAck(toUserID string, appID string, now time.Time) string {
	var builder strings.Builder
	builder.WriteString("<XML>")
	builder.WriteString("<ToUserId><![CDATA[")
	builder.WriteString(cdata(toUserID))
	builder.WriteString("]]></ToUserId>")
	builder.WriteString("<AppId><![CDATA[")
	builder.WriteString(cdata(appID))
	builder.WriteString("]]></AppId>")
	builder.WriteString("<CreateTime>")
	builder.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	builder.WriteString("</CreateTime>")
	builder.WriteString("<MsgType><![CDATA[ack]]></MsgType>")
	builder.WriteString("</XML>")
	return builder.String()
}

// BuildVerifyResponse renders the ownership check answer.
func BuildVerifyResponse(token string) string {
	return "<success>true</success><biz_content>" + token + "</biz_content>"
}

func cdata(value string) string {
	return strings.ReplaceAll(value, "]]>", "]]]]><![CDATA[>")
}

type Article struct {
	Title      string `json:"title"`
	Desc       string `json:"desc"`
	ImageURL   string `json:"image_url,omitempty"`
	URL        string `json:"url"`
	ActionName string `json:"action_name,omitempty"`
}

type TextPayload struct {
	Content string `json:"content"`
}

// CustomMessage is the biz_content of a custom-send call.
type CustomMessage struct {
	ToUserID string       `json:"to_user_id"`
	MsgType  string       `json:"msg_type"`
	Articles []Article    `json:"articles,omitempty"`
	Text     *TextPayload `json:"text,omitempty"`
	Chat     string       `json:"chat,omitempty"`
}

func (m CustomMessage) JSON() (string, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func ImageTextMessage(toUserID string, articles ...Article) CustomMessage {
	return CustomMessage{
		ToUserID: toUserID,
		MsgType:  MsgTypeImageText,
		Articles: append([]Article(nil), articles...),
		Chat:     "0",
	}
}

func TextMessage(toUserID string, content string) CustomMessage {
	return CustomMessage{
		ToUserID: toUserID,
		MsgType:  MsgTypeText,
		Text:     &TextPayload{Content: content},
		Chat:     "0",
	}
}

// DefaultArticle is the canned reply sent to chat messages.
var DefaultArticle = Article{
	Title:      "Thanks for your message",
	Desc:       "We received your message and will get back to you shortly.",
	ImageURL:   "https://example.com/lifegateway/banner.png",
	URL:        "https://example.com/lifegateway",
	ActionName: "View details",
}
