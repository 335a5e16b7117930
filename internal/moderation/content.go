package moderation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/karuteens/moderation/internal/models"
)

var (
	ErrUnsupportedContentType = errors.New("неподдерживаемый тип контента")
	ErrInvalidContent         = errors.New("некорректный контент для проверки")
)

// Kind дискриминатор проверяемого контента.
type Kind string

const (
	KindText        Kind = "text"
	KindUserProfile Kind = "user_profile"
	KindPost        Kind = "post"
	KindComment     Kind = "comment"
)

// FlagContentType возвращает тип контента для автофлага. У голого текста его нет.
func (k Kind) FlagContentType() (string, bool) {
	switch k {
	case KindUserProfile:
		return models.ContentTypeProfile, true
	case KindPost:
		return models.ContentTypePost, true
	case KindComment:
		return models.ContentTypeComment, true
	default:
		return "", false
	}
}

// Content закрытое объединение проверяемых типов контента.
type Content interface {
	Kind() Kind
	content()
}

// TextContent произвольный текст.
type TextContent struct {
	Text string
}

// ProfileContent поля профиля. Аватар принимается, но не проверяется.
type ProfileContent struct {
	Username  string  `json:"username"`
	FullName  *string `json:"full_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

// PostContent публикация. Медиа принимаются, но не проверяются.
type PostContent struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`
	VideoURL *string `json:"video_url"`
}

// CommentContent комментарий.
type CommentContent struct {
	Content string `json:"content"`
}

func (TextContent) Kind() Kind    { return KindText }
func (ProfileContent) Kind() Kind { return KindUserProfile }
func (PostContent) Kind() Kind    { return KindPost }
func (CommentContent) Kind() Kind { return KindComment }

func (TextContent) content()    {}
func (ProfileContent) content() {}
func (PostContent) content()    {}
func (CommentContent) content() {}

// DecodeContent собирает Content из дискриминатора и JSON-нагрузки.
// Для text нагрузка это JSON-строка, для остальных типов объект.
func DecodeContent(kind Kind, raw json.RawMessage) (Content, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrInvalidContent
	}

	switch kind {
	case KindText:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		return TextContent{Text: text}, nil
	case KindUserProfile:
		var p ProfileContent
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		if strings.TrimSpace(p.Username) == "" {
			return nil, fmt.Errorf("%w: username обязателен", ErrInvalidContent)
		}
		return p, nil
	case KindPost:
		var p PostContent
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		if p.Content == "" {
			return nil, fmt.Errorf("%w: content обязателен", ErrInvalidContent)
		}
		return p, nil
	case KindComment:
		var c CommentContent
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
		}
		if c.Content == "" {
			return nil, fmt.Errorf("%w: content обязателен", ErrInvalidContent)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedContentType, kind)
	}
}
