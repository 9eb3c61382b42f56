package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetAndNext(t *testing.T) {
	t.Cleanup(func() { Set("default") })

	assert.Equal(t, []string{"default", "dracula", "gruvbox", "nord"}, List())
	assert.False(t, Set("solarized"))
	assert.Equal(t, "default", Current.Name)

	assert.Equal(t, "dracula", Next())
	assert.True(t, Set("nord"))
	assert.Equal(t, "default", Next(), "wraps around")
}

func TestPaletteFillsEveryRole(t *testing.T) {
	for _, name := range List() {
		th := themes[name]
		for _, c := range []string{
			string(th.Primary), string(th.Text), string(th.Surface), string(th.Border),
			string(th.Token), string(th.Param), string(th.Error), string(th.Info),
		} {
			assert.NotEmpty(t, c, name)
		}
	}
}

func TestStrategyColor(t *testing.T) {
	th := themes["default"]
	assert.Equal(t, th.Success, th.StrategyColor("native"))
	assert.Equal(t, th.Warning, th.StrategyColor("emulated"))
	assert.Equal(t, th.Info, th.StrategyColor("hash"))
}
