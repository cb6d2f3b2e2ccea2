package model

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestUserSettings_MarshalJSON(t *testing.T) {
	t.Run("profile picture is exported", func(t *testing.T) {
		// Arrange
		settings := UserSettings{
			Pid:        7,
			ScreenName: "Inkling",
			PfpUri:     sql.NullString{String: "iVBORw0KGgo=", Valid: true},
		}

		// Act
		data, err := json.Marshal(settings)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "iVBORw0KGgo=", gjson.GetBytes(data, "pfp_uri").String())
		assert.Equal(t, int64(7), gjson.GetBytes(data, "pid").Int())
		assert.Equal(t, "Inkling", gjson.GetBytes(data, "screen_name").String())
		assert.True(t, gjson.GetBytes(data, "created_at").Exists())
	})

	t.Run("null profile picture", func(t *testing.T) {
		data, err := json.Marshal(&UserSettings{Pid: 7})

		require.NoError(t, err)
		result := gjson.GetBytes(data, "pfp_uri")
		assert.True(t, result.Exists())
		assert.Equal(t, gjson.Null, result.Type)
	})
}
