package moderation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karuteens/moderation/internal/models"
)

func strPtr(s string) *string { return &s }

func TestClassify_ProfileReportsFirstFlaggedField(t *testing.T) {
	scanner := NewKeywordScanner()

	t.Run("clean username, flagged bio", func(t *testing.T) {
		res, err := Classify(scanner, ProfileContent{
			Username: "student42",
			FullName: strPtr("Jane Doe"),
			Bio:      strPtr("click here for free money, act now"),
		})
		require.NoError(t, err)
		require.True(t, res.Flagged)
		assert.Equal(t, models.FlagTypeSpam, *res.FlagType)

		details, ok := res.Details.(ProfileDetails)
		require.True(t, ok)
		assert.False(t, details.Username.Flagged)
		require.NotNil(t, details.FullName)
		require.NotNil(t, details.Bio)
		assert.True(t, details.Bio.Flagged)
	})

	t.Run("username wins over stronger bio", func(t *testing.T) {
		res, err := Classify(scanner, ProfileContent{
			Username: "hate racist bigot nazi",
			Bio:      strPtr("click here free money act now urgent win now"),
		})
		require.NoError(t, err)
		require.True(t, res.Flagged)
		assert.Equal(t, models.FlagTypeHateSpeech, *res.FlagType)
		assert.InDelta(t, 4.0/9.0, *res.ConfidenceScore, 1e-9)

		details := res.Details.(ProfileDetails)
		assert.Nil(t, details.FullName)
		assert.True(t, details.Bio.Flagged)
		assert.Greater(t, *details.Bio.ConfidenceScore, *res.ConfidenceScore)
	})

	t.Run("nothing flagged", func(t *testing.T) {
		res, err := Classify(scanner, ProfileContent{Username: "student42", Bio: strPtr("CS major")})
		require.NoError(t, err)
		assert.False(t, res.Flagged)
		assert.Nil(t, res.Details)
	})
}

func TestClassify_PostIgnoresMedia(t *testing.T) {
	res, err := Classify(NewKeywordScanner(), PostContent{
		Content:  "photos from the hackathon",
		ImageURL: strPtr("https://cdn.example/nude-porn-xxx.png"),
	})
	require.NoError(t, err)
	assert.False(t, res.Flagged)
}

func TestClassify_Comment(t *testing.T) {
	res, err := Classify(NewKeywordScanner(), CommentContent{Content: "click here for free money now, act now!"})
	require.NoError(t, err)
	require.True(t, res.Flagged)
	assert.Equal(t, models.FlagTypeSpam, *res.FlagType)
}

func TestClassify_Text(t *testing.T) {
	res, err := Classify(NewKeywordScanner(), TextContent{Text: "nude porn"})
	require.NoError(t, err)
	assert.True(t, res.Flagged)
}

type fixedClassifier struct{ calls []string }

func (f *fixedClassifier) Scan(text string) ScanResult {
	f.calls = append(f.calls, text)
	return ScanResult{}
}

func TestClassify_UsesInjectedClassifier(t *testing.T) {
	c := &fixedClassifier{}
	_, err := Classify(c, ProfileContent{Username: "u", FullName: strPtr(""), Bio: strPtr("b")})
	require.NoError(t, err)
	assert.Equal(t, []string{"u", "b"}, c.calls)
}

func TestDecodeContent(t *testing.T) {
	c, err := DecodeContent(KindText, json.RawMessage(`"hello"`))
	require.NoError(t, err)
	assert.Equal(t, TextContent{Text: "hello"}, c)

	c, err = DecodeContent(KindUserProfile, json.RawMessage(`{"username":"bob","bio":"hi"}`))
	require.NoError(t, err)
	profile := c.(ProfileContent)
	assert.Equal(t, "bob", profile.Username)
	assert.Equal(t, "hi", *profile.Bio)
	assert.Nil(t, profile.FullName)

	c, err = DecodeContent(KindPost, json.RawMessage(`{"content":"x","image_url":"https://i"}`))
	require.NoError(t, err)
	assert.Equal(t, KindPost, c.Kind())

	_, err = DecodeContent(KindUserProfile, json.RawMessage(`{"bio":"no username"}`))
	assert.ErrorIs(t, err, ErrInvalidContent)

	_, err = DecodeContent(KindComment, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrInvalidContent)

	_, err = DecodeContent(KindText, nil)
	assert.ErrorIs(t, err, ErrInvalidContent)

	_, err = DecodeContent(Kind("media"), json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestKind_FlagContentType(t *testing.T) {
	ct, ok := KindUserProfile.FlagContentType()
	assert.True(t, ok)
	assert.Equal(t, models.ContentTypeProfile, ct)

	_, ok = KindText.FlagContentType()
	assert.False(t, ok)
}
