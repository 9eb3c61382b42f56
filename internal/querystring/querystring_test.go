package querystring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{"empty", "", map[string]string{}},
		{"single", "q=widgets", map[string]string{"q": "widgets"}},
		{"multiple", "q=widgets&sort=asc", map[string]string{"q": "widgets", "sort": "asc"}},
		{"no value", "flag", map[string]string{"flag": ""}},
		{"empty value", "q=", map[string]string{"q": ""}},
		{"percent decoded", "q=blue%20widgets&k%26=v", map[string]string{"q": "blue widgets", "k&": "v"}},
		{"plus kept", "q=a+b", map[string]string{"q": "a+b"}},
		{"bad escape kept", "q=100%", map[string]string{"q": "100%"}},
		{"value with equals", "expr=a=b", map[string]string{"expr": "a=b"}},
		{"last duplicate wins", "q=1&q=2", map[string]string{"q": "2"}},
		{"empty key dropped", "=x&&y=1", map[string]string{"y": "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.raw))
		})
	}
}
