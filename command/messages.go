package command

import (
	"strings"

	"github.com/goliatone/go-lifegateway/executor"
)

const (
	TypeSendText      = "lifegateway.command.message.send_text"
	TypeSendImageText = "lifegateway.command.message.send_image_text"
)

// SendTextMessage pushes a text message to a follower outside of a callback.
type SendTextMessage struct {
	ToUserID string
	Content  string
}

func (SendTextMessage) Type() string { return TypeSendText }

func (m SendTextMessage) Validate() error {
	if err := validateRecipient(m.ToUserID); err != nil {
		return err
	}
	if strings.TrimSpace(m.Content) == "" {
		return commandValidationError("content", "content is required")
	}
	return nil
}

func (m SendTextMessage) message() executor.CustomMessage {
	return executor.TextMessage(strings.TrimSpace(m.ToUserID), m.Content)
}

type SendImageTextMessage struct {
	ToUserID string
	Articles []executor.Article
}

func (SendImageTextMessage) Type() string { return TypeSendImageText }

func (m SendImageTextMessage) Validate() error {
	if err := validateRecipient(m.ToUserID); err != nil {
		return err
	}
	if len(m.Articles) == 0 {
		return commandValidationError("articles", "at least one article is required")
	}
	for _, article := range m.Articles {
		if strings.TrimSpace(article.Title) == "" {
			return commandValidationError("articles.title", "article title is required")
		}
	}
	return nil
}

func (m SendImageTextMessage) message() executor.CustomMessage {
	return executor.ImageTextMessage(strings.TrimSpace(m.ToUserID), m.Articles...)
}

func validateRecipient(toUserID string) error {
	if strings.TrimSpace(toUserID) == "" {
		return commandValidationError("to_user_id", "recipient is required")
	}
	return nil
}
