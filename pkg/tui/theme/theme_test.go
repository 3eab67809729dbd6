package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggle(t *testing.T) {
	assert.Equal(t, NameLight, Default().Toggle().Name)
	assert.Equal(t, NameDark, Light().Toggle().Name)
}

func TestByName(t *testing.T) {
	assert.Equal(t, NameLight, ByName(" Light ").Name)
	assert.Equal(t, NameDark, ByName("dark").Name)
	assert.Equal(t, NameDark, ByName("solarized").Name)
}

func TestResolve(t *testing.T) {
	light := func() string { return NameLight }
	tests := map[string]struct {
		saved, configured string
		detect            func() string
		want              string
	}{
		"saved wins":         {saved: "light", configured: "dark", detect: nil, want: NameLight},
		"configured":         {configured: "LIGHT", want: NameLight},
		"unknown is skipped": {saved: "neon", configured: "dark", want: NameDark},
		"detected":           {detect: light, want: NameLight},
		"nothing":            {want: NameDark},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.saved, tc.configured, tc.detect))
		})
	}
}
