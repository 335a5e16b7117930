// Package validation проверяет пользовательский контент до сохранения:
// длины полей, формат имени пользователя и ссылок на медиа.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Константы валидации
const (
	MinUsernameLength  = 3
	MaxUsernameLength  = 50
	MinFullNameLength  = 2
	MaxFullNameLength  = 255
	MaxBioLength       = 2000
	MaxPostLength      = 10000
	MaxCommentLength   = 5000
	MaxMediaLinkLength = 500
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.]+$`)
	fullNameRegex = regexp.MustCompile(`^[\p{L}0-9\s\-_.,'()]+$`)
)

// ValidateLength проверяет длину строки в символах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	// Только латиница, цифры, точка и подчеркивание
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры, точку и подчеркивание")
	}

	if unicode.IsDigit(rune(username[0])) {
		return fmt.Errorf("имя пользователя не может начинаться с цифры")
	}

	return nil
}

// ValidateFullName проверяет отображаемое имя, пустое значение допустимо.
func ValidateFullName(fullName *string) error {
	if fullName == nil || strings.TrimSpace(*fullName) == "" {
		return nil
	}
	name := strings.TrimSpace(*fullName)
	if err := ValidateLength("полное имя", name, MinFullNameLength, MaxFullNameLength); err != nil {
		return err
	}
	if !fullNameRegex.MatchString(name) {
		return fmt.Errorf("полное имя содержит недопустимые символы")
	}
	return nil
}

// ValidateBio проверяет описание профиля.
func ValidateBio(bio *string) error {
	if bio != nil && *bio != "" {
		return ValidateLength("описание профиля", strings.TrimSpace(*bio), 0, MaxBioLength)
	}
	return nil
}

// ValidateMediaLink проверяет ссылку на аватар, изображение или видео.
func ValidateMediaLink(fieldName string, link *string) error {
	if link == nil || *link == "" {
		return nil
	}
	linkStr := strings.TrimSpace(*link)

	if err := ValidateLength(fieldName, linkStr, 0, MaxMediaLinkLength); err != nil {
		return err
	}

	parsedURL, err := url.Parse(linkStr)
	if err != nil {
		return fmt.Errorf("%s: некорректный формат URL", fieldName)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s: ссылка должна начинаться с http:// или https://", fieldName)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s: ссылка должна содержать доменное имя", fieldName)
	}
	return nil
}

// ValidateText проверяет текст публикации или комментария.
func ValidateText(fieldName, content string, max int) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return ValidateLength(fieldName, content, 1, max)
}

// ValidateProfile проверяет все поля профиля, возвращает первую ошибку.
func ValidateProfile(username string, fullName, bio, avatarURL *string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if err := ValidateFullName(fullName); err != nil {
		return err
	}
	if err := ValidateBio(bio); err != nil {
		return err
	}
	return ValidateMediaLink("avatar_url", avatarURL)
}

// ValidatePost проверяет публикацию.
func ValidatePost(content string, imageURL, videoURL *string) error {
	if err := ValidateText("текст публикации", content, MaxPostLength); err != nil {
		return err
	}
	if err := ValidateMediaLink("image_url", imageURL); err != nil {
		return err
	}
	return ValidateMediaLink("video_url", videoURL)
}
