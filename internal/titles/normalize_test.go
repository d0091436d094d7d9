package titles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "The World's End", "The World's End"},
		{"bare broken fragment", "The World#039;s End", "The World's End"},
		{"double escaped", "The World&amp;#039;s End", "The World's End"},
		{"double escaped hex", "The World&amp;#x27;s End", "The World's End"},
		{"numeric entity", "The World&#039;s End", "The World's End"},
		{"hex entity", "The World&#x27;s End", "The World's End"},
		{"mojibake curly apostrophe", "The Worldâ€™s End", "The World's End"},
		{"curly apostrophe", "The World’s End", "The World's End"},
		{"space before fragment", "The World #039;s End", "The World's End"},
		{"space before entity", "The World &#039;s End", "The World's End"},
		{"stray ampersand fragment", "World & #039;s", "World's"},
		{"ampersand preserved", "Tom & Jerry", "Tom & Jerry"},
		{"ampersand entity preserved", "Tom &amp; Jerry", "Tom & Jerry"},
		{"named entities", "Crouching&nbsp;Tiger &quot;Hidden&quot; Dragon", `Crouching Tiger "Hidden" Dragon`},
		{"em dash", "Okja — Director's Cut", "Okja - Director's Cut"},
		{"whitespace collapsed", "  The   Godfather \t Part II ", "The Godfather Part II"},
		{"accented entity", "Am&#233;lie", "Amélie"},
		{"unknown entity passes through", "Foo &blorp; Bar", "Foo &blorp; Bar"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got.Normalized)
		})
	}
}

func TestNormalizeStripped(t *testing.T) {
	got := Normalize("The World&amp;#039;s End")
	assert.Equal(t, "The World's End", got.Normalized)
	assert.Equal(t, "The Worlds End", got.Stripped)

	got = Normalize("Tom & Jerry")
	assert.Equal(t, "Tom & Jerry", got.Stripped)
}

// Every encoding of the same logical title must land on the same
// normalized form, or cross-user grouping falls apart.
func TestNormalizeEntityEquivalence(t *testing.T) {
	variants := []string{
		"The World's End",
		"The World#039;s End",
		"The World&amp;#039;s End",
		"The World&#039;s End",
		"The World &#039;s End",
		"The World’s End",
		"The Worldâ€™s End",
	}
	for _, v := range variants {
		assert.Equal(t, "The World's End", Normalize(v).Normalized, "variant %q", v)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"The World#039;s End",
		"Tom &amp; Jerry",
		"The Worldâ€™s End",
		"Am&#233;lie",
		"Blade Runner 2049",
	}
	for _, in := range inputs {
		once := Normalize(in).Normalized
		twice := Normalize(once).Normalized
		assert.Equal(t, once, twice, "re-normalizing %q changed the result", in)
	}
}
