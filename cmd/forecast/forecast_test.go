package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForecastCommand_Metadata(t *testing.T) {
	assert.Equal(t, "forecast", Cmd.Use)
	assert.NotNil(t, Cmd.RunE)
	for _, name := range []string{"target", "output-dir", "snapshot"} {
		assert.NotNil(t, Cmd.Flags().Lookup(name), name)
	}
	assert.Nil(t, Cmd.Flags().Lookup("forecast"), "stages are always on")
}
