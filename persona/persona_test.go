package persona

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse(t *testing.T) {
	tTable := []struct {
		key  string
		want Persona
	}{
		{key: "putin", want: Putin},
		{key: "friendly", want: Friendly},
		{key: "professional", want: Professional},
		{key: "funny", want: Funny},
		{key: "default", want: Default},
		{key: "PUTIN", want: Default},
		{key: "friendly ", want: Default},
		{key: "", want: Default},
		{key: "pirate", want: Default},
	}

	for _, tc := range tTable {
		t.Run(tc.key, func(t *testing.T) {
			assert.Equal(t, tc.want, Parse(tc.key))
		})
	}
}

func Test_Known(t *testing.T) {
	for _, key := range []string{"putin", "default", "friendly", "professional", "funny"} {
		assert.True(t, Known(key), key)
	}
	assert.False(t, Known("pirate"))
	assert.False(t, Known("Putin"))
}

func Test_Template_putin(t *testing.T) {
	lines := strings.Split(Putin.Template(), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Ты - Владимир Владимирович Путин, Президент Российской Федерации. ", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "иронией. "))
	assert.Equal(t, "Не переигрывай, будь естественным. Отвечай на русском языке.", lines[3])
}

func Test_Template_professionalAndFunny(t *testing.T) {
	assert.True(t, strings.HasPrefix(Professional.Template(), "Ты - профессиональный и вежливый бот."))
	assert.True(t, strings.HasSuffix(Funny.Template(), "Используй мемы и отсылки в разумных пределах."))
	assert.NotEqual(t, Default.Template(), Professional.Template())
	assert.NotEqual(t, Default.Template(), Funny.Template())
}

func Test_BuildPrompt_unknownKeyUsesDefault(t *testing.T) {
	got := BuildPrompt("pirate", GroupContext, "привет")
	want := BuildPrompt("default", GroupContext, "привет")
	assert.Equal(t, want, got)
}

func Test_BuildPrompt_layout(t *testing.T) {
	got := BuildPrompt("friendly", "CTX", "как дела?")

	assert.True(t, strings.HasPrefix(got, Friendly.Template()))
	assert.Contains(t, got, "\nCTX\n")
	assert.Contains(t, got, "Сообщение: как дела?")
	assert.True(t, strings.HasSuffix(got, "как в обычном разговоре."))

	// template, context and message appear in that order
	iCtx := strings.Index(got, "CTX")
	iMsg := strings.Index(got, "как дела?")
	assert.Less(t, iCtx, iMsg)
}
