package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindValid(t *testing.T) {
	valid := []Kind{
		KindNews, KindDocument, KindService, KindAgenda, KindLegal,
		KindProfile, KindStatistic, KindTransparency, KindProgram,
	}
	for _, k := range valid {
		assert.True(t, k.Valid(), "kind %s", k)
	}

	assert.False(t, Kind("gallery").Valid())
	assert.False(t, Kind("").Valid())
}
