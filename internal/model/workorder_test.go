package model_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/propwise/marketplace-service/internal/model"
)

func TestPartListRoundTrip(t *testing.T) {
	parts := []model.WorkOrderPart{
		{Name: "Capacitor", Quantity: decimal.NewFromInt(2), Cost: decimal.RequireFromString("19.99")},
	}
	raw, err := model.EncodePartList(parts)
	require.NoError(t, err)

	decoded := model.DecodePartList(raw)
	require.Len(t, decoded, 1)
	require.Equal(t, "Capacitor", decoded[0].Name)
	require.True(t, decoded[0].Cost.Equal(parts[0].Cost))
}

func TestDecodePartListLegacyBareArray(t *testing.T) {
	raw := []byte(`[{"name":"Fuse","quantity":"4","cost":"1.25"}]`)
	decoded := model.DecodePartList(raw)
	require.Len(t, decoded, 1)
	require.Equal(t, "Fuse", decoded[0].Name)
	require.Equal(t, "1.25", decoded[0].Cost.String())
}

func TestDecodePartListMalformed(t *testing.T) {
	for _, raw := range [][]byte{nil, {}, []byte("not json"), []byte(`{"version":0}`), []byte(`123`)} {
		decoded := model.DecodePartList(raw)
		require.NotNil(t, decoded)
		require.Empty(t, decoded)
	}
}

func TestChargeListRoundTrip(t *testing.T) {
	charges := []model.OtherCharge{{Description: "Disposal", Amount: decimal.NewFromInt(15)}}
	raw, err := model.EncodeChargeList(charges)
	require.NoError(t, err)

	decoded := model.DecodeChargeList(raw)
	require.Len(t, decoded, 1)
	require.Equal(t, "Disposal", decoded[0].Description)
}

func TestDecodeChargeListMalformed(t *testing.T) {
	decoded := model.DecodeChargeList([]byte(`{"version":1,"items":`))
	require.NotNil(t, decoded)
	require.Empty(t, decoded)
}
