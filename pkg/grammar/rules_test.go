package grammar

import (
	"testing"

	"github.com/aretw0/taxaquery/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestCharacterClasses(t *testing.T) {
	for _, c := range []byte("azAZ ") {
		assert.True(t, IsNameChar(c), "%q should be a name char", c)
	}
	for _, c := range []byte("09_-:,()\t\n") {
		assert.False(t, IsNameChar(c), "%q should not be a name char", c)
	}
	assert.True(t, IsSpace('\t'))
	assert.False(t, IsLetter(' '))
}

func TestLookupExtension(t *testing.T) {
	ext, ok := LookupExtension("siblings")
	assert.True(t, ok)
	assert.Equal(t, domain.ExtensionSiblings, ext)

	_, ok = LookupExtension("Children")
	assert.False(t, ok, "keywords are case sensitive")
	_, ok = LookupExtension("")
	assert.False(t, ok)
}

func TestKeywords_Sorted(t *testing.T) {
	assert.Equal(t, []string{"children", "parent", "siblings"}, Keywords())
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{"child", "children"},
		{"Parent", "parent"},
		{"sibling", "siblings"},
		{"chidlren", "children"},
		{"parnet", "parent"},
		{"xyz", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Suggest(tt.word), "Suggest(%q)", tt.word)
	}
}

func TestValidName(t *testing.T) {
	assert.NoError(t, ValidName("sea spiders"))
	assert.Error(t, ValidName(""))
	assert.Error(t, ValidName(" Homo"))
	assert.Error(t, ValidName("Homo2"))
}
