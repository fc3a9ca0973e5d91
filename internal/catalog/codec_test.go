package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson"
)

func TestDecimalCodecRoundTrip(t *testing.T) {
	reg := newRegistry()

	type doc struct {
		Price decimal.Decimal `bson:"price"`
	}

	in := doc{Price: decimal.RequireFromString("1299.99")}

	raw, err := bson.MarshalWithRegistry(reg, in)
	require.NoError(t, err)

	var out doc
	require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))
	assert.True(t, in.Price.Equal(out.Price))
}

func TestDecimalCodecDecodesNumericTypes(t *testing.T) {
	reg := newRegistry()

	type wide struct {
		AsDouble decimal.Decimal `bson:"asDouble"`
		AsInt    decimal.Decimal `bson:"asInt"`
		AsString decimal.Decimal `bson:"asString"`
	}

	raw, err := bson.Marshal(bson.M{
		"asDouble": 19.5,
		"asInt":    int64(42),
		"asString": "3.14",
	})
	require.NoError(t, err)

	var out wide
	require.NoError(t, bson.UnmarshalWithRegistry(reg, raw, &out))
	assert.True(t, out.AsDouble.Equal(decimal.RequireFromString("19.5")))
	assert.True(t, out.AsInt.Equal(decimal.NewFromInt(42)))
	assert.True(t, out.AsString.Equal(decimal.RequireFromString("3.14")))
}
