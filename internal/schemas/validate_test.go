package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStepPayload_Step1(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		err := ValidateStepPayload(1, []byte(`{"member_count": 3, "same_roles": false}`))
		assert.NoError(t, err)
	})

	t.Run("missing member count", func(t *testing.T) {
		err := ValidateStepPayload(1, []byte(`{"same_roles": true}`))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, 1, verr.Step)
		assert.NotEmpty(t, verr.Failures)
	})

	t.Run("member count out of range", func(t *testing.T) {
		err := ValidateStepPayload(1, []byte(`{"member_count": 0}`))
		assert.Error(t, err)

		err = ValidateStepPayload(1, []byte(`{"member_count": 101}`))
		assert.Error(t, err)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		err := ValidateStepPayload(1, []byte(`{"member_count": 2, "extra": true}`))
		assert.Error(t, err)
	})
}

func TestValidateStepPayload_Step2(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		payload := `{
			"industry": "Real Estate",
			"roles": [
				{"title": "Virtual Assistant", "description": "Admin support", "experience_level": "mid", "completed": true}
			]
		}`
		assert.NoError(t, ValidateStepPayload(2, []byte(payload)))
	})

	t.Run("bad experience level", func(t *testing.T) {
		payload := `{"roles": [{"title": "VA", "experience_level": "expert"}]}`
		err := ValidateStepPayload(2, []byte(payload))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, 2, verr.Step)
	})

	t.Run("empty roles rejected", func(t *testing.T) {
		assert.Error(t, ValidateStepPayload(2, []byte(`{"roles": []}`)))
	})
}

func TestValidateStepPayload_Step3(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		payload := `{"workspaces": {"role-1": "wfh", "role-2": "office"}}`
		assert.NoError(t, ValidateStepPayload(3, []byte(payload)))
	})

	t.Run("bad workspace type", func(t *testing.T) {
		err := ValidateStepPayload(3, []byte(`{"workspaces": {"role-1": "remote"}}`))
		assert.Error(t, err)
	})

	t.Run("empty workspaces rejected", func(t *testing.T) {
		assert.Error(t, ValidateStepPayload(3, []byte(`{"workspaces": {}}`)))
	})
}

func TestValidateStepPayload_UnknownStep(t *testing.T) {
	err := ValidateStepPayload(4, []byte(`{}`))
	require.Error(t, err)
	var verr *ValidationError
	assert.False(t, errors.As(err, &verr))
}

func TestHasPayloadSchema(t *testing.T) {
	assert.True(t, HasPayloadSchema(1))
	assert.True(t, HasPayloadSchema(2))
	assert.True(t, HasPayloadSchema(3))
	assert.False(t, HasPayloadSchema(4))
	assert.False(t, HasPayloadSchema(5))
}
