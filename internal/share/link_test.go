package share

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink_RoundTripsThroughTokenFromLink(t *testing.T) {
	token := "W3sibmFtZSI6IlBobyJ9XQ+/=="

	link, err := Link("https://lunch.example.com/app/?lang=en", token)
	require.NoError(t, err)
	assert.Contains(t, link, "https://lunch.example.com/app/?")
	assert.Contains(t, link, "lang=en")
	assert.Contains(t, link, "share=")

	got, err := TokenFromLink(link)
	require.NoError(t, err)
	assert.Equal(t, token, got)
}

func TestLink_BadBase(t *testing.T) {
	_, err := Link("://nope", "abc")
	var encErr *EncodeError
	require.ErrorAs(t, err, &encErr)
}

func TestTokenFromLink_BareToken(t *testing.T) {
	got, err := TokenFromLink("  W3sibmFtZSI6IlBobyJ9XQ==  ")
	require.NoError(t, err)
	assert.Equal(t, "W3sibmFtZSI6IlBobyJ9XQ==", got)
}

func TestTokenFromLink_Failures(t *testing.T) {
	for _, in := range []string{"", "https://lunch.example.com/?other=1", "https://lunch.example.com/"} {
		_, err := TokenFromLink(in)
		var decErr *DecodeError
		require.ErrorAs(t, err, &decErr, in)
		assert.Equal(t, StageLink, decErr.Stage)
	}
}

func TestStripToken(t *testing.T) {
	assert.Equal(t, "https://lunch.example.com/app/?lang=en",
		StripToken("https://lunch.example.com/app/?lang=en&share=abc"))
	assert.Equal(t, "https://lunch.example.com/app/",
		StripToken("https://lunch.example.com/app/?share=abc"))
	assert.Equal(t, "https://lunch.example.com/app/",
		StripToken("https://lunch.example.com/app/"))
}
