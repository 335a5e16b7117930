package moderation

import "fmt"

// ProfileDetails результаты по каждому полю профиля. Отсутствующие поля равны nil.
type ProfileDetails struct {
	Username ScanResult  `json:"username"`
	FullName *ScanResult `json:"full_name"`
	Bio      *ScanResult `json:"bio"`
}

// Classify проверяет контент выбранным классификатором. Побочных эффектов нет.
func Classify(c Classifier, content Content) (ScanResult, error) {
	switch v := content.(type) {
	case TextContent:
		return c.Scan(v.Text), nil
	case ProfileContent:
		return classifyProfile(c, v), nil
	case PostContent:
		// Изображения и видео пока не проверяются.
		return c.Scan(v.Content), nil
	case CommentContent:
		return c.Scan(v.Content), nil
	default:
		return ScanResult{}, fmt.Errorf("%w: %T", ErrUnsupportedContentType, content)
	}
}

// classifyProfile берёт первый сработавший результат в порядке username, full_name, bio,
// а не максимальный.
func classifyProfile(c Classifier, p ProfileContent) ScanResult {
	details := ProfileDetails{Username: c.Scan(p.Username)}
	if p.FullName != nil && *p.FullName != "" {
		r := c.Scan(*p.FullName)
		details.FullName = &r
	}
	if p.Bio != nil && *p.Bio != "" {
		r := c.Scan(*p.Bio)
		details.Bio = &r
	}

	for _, r := range []*ScanResult{&details.Username, details.FullName, details.Bio} {
		if r != nil && r.Flagged {
			return ScanResult{
				Flagged:         true,
				FlagType:        r.FlagType,
				ConfidenceScore: r.ConfidenceScore,
				Details:         details,
			}
		}
	}

	return ScanResult{Flagged: false}
}
