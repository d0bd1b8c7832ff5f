package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPaymentIntentEncodeParse(t *testing.T) {
	intent := &PaymentIntent{
		PaymentID:  uuid.New(),
		Kind:       ProductBoost,
		SubjectID:  1001,
		ReferrerID: 2002,
	}

	payload, err := intent.Encode()
	require.NoError(t, err)
	require.LessOrEqual(t, len(payload), MaxInvoicePayloadBytes)

	parsed, err := ParsePaymentIntent(payload)
	require.NoError(t, err)
	require.Equal(t, intent.PaymentID, parsed.PaymentID)
	require.Equal(t, ProductBoost, parsed.Kind)
	require.Equal(t, int64(1001), parsed.SubjectID)
	require.Equal(t, int64(2002), parsed.ReferrerID)
}

func TestPaymentIntentEncodeWithoutReferrer(t *testing.T) {
	intent := &PaymentIntent{
		PaymentID: uuid.New(),
		Kind:      ProductDonate,
		SubjectID: 3003,
	}

	payload, err := intent.Encode()
	require.NoError(t, err)
	require.NotContains(t, payload, `"ref"`)

	parsed, err := ParsePaymentIntent(payload)
	require.NoError(t, err)
	require.Zero(t, parsed.ReferrerID)
}

func TestPaymentIntentValidate(t *testing.T) {
	base := PaymentIntent{
		PaymentID: uuid.New(),
		Kind:      ProductBoost,
		SubjectID: 1001,
	}

	t.Run("invalid kind", func(t *testing.T) {
		intent := base
		intent.Kind = "subscription"
		require.ErrorIs(t, intent.Validate(), ErrInvalidPayload)
	})

	t.Run("zero subject", func(t *testing.T) {
		intent := base
		intent.SubjectID = 0
		require.ErrorIs(t, intent.Validate(), ErrInvalidPayload)
	})

	t.Run("empty payment id", func(t *testing.T) {
		intent := base
		intent.PaymentID = uuid.Nil
		require.ErrorIs(t, intent.Validate(), ErrInvalidPayload)
	})

	t.Run("referrer on non-boost", func(t *testing.T) {
		intent := base
		intent.Kind = ProductEnergy
		intent.ReferrerID = 42
		require.ErrorIs(t, intent.Validate(), ErrInvalidPayload)
	})
}

func TestParsePaymentIntentRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"empty":       "",
		"not json":    "boost:1001",
		"wrong shape": `{"kind":42}`,
		"too long":    `{"pid":"` + strings.Repeat("a", MaxInvoicePayloadBytes) + `"}`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePaymentIntent(payload)
			require.Error(t, err)
		})
	}
}
