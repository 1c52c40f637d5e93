package persistence

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type pricedDoc struct {
	Amount decimal.Decimal `bson:"amount"`
}

func marshalWithRegistry(t *testing.T, doc interface{}) bson.Raw {
	t.Helper()
	data, err := bson.MarshalWithRegistry(newRegistry(), doc)
	require.NoError(t, err)
	return bson.Raw(data)
}

func unmarshalWithRegistry(t *testing.T, data []byte, out interface{}) {
	t.Helper()
	require.NoError(t, bson.UnmarshalWithRegistry(newRegistry(), data, out))
}

func TestDecimalCodec_EncodesAsDecimal128(t *testing.T) {
	raw := marshalWithRegistry(t, pricedDoc{Amount: decimal.RequireFromString("250.75")})

	value := raw.Lookup("amount")
	d128, ok := value.Decimal128OK()
	require.True(t, ok, "monetary values are stored as Decimal128, not Double")
	assert.Equal(t, "250.75", d128.String())
}

func TestDecimalCodec_RoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "-42.01", "250.75", "99999999.999999"} {
		raw := marshalWithRegistry(t, pricedDoc{Amount: decimal.RequireFromString(s)})

		var out pricedDoc
		unmarshalWithRegistry(t, raw, &out)
		assert.True(t, out.Amount.Equal(decimal.RequireFromString(s)), "value %s", s)
	}
}

func TestDecimalCodec_DecodesLegacyTypes(t *testing.T) {
	d128, err := primitive.ParseDecimal128("10.5")
	require.NoError(t, err)

	cases := []struct {
		name string
		doc  bson.M
		want string
	}{
		{"decimal128", bson.M{"amount": d128}, "10.5"},
		{"double", bson.M{"amount": 10.5}, "10.5"},
		{"int32", bson.M{"amount": int32(7)}, "7"},
		{"int64", bson.M{"amount": int64(12)}, "12"},
		{"string", bson.M{"amount": "3.14"}, "3.14"},
		{"null", bson.M{"amount": nil}, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := bson.Marshal(tc.doc)
			require.NoError(t, err)

			var out pricedDoc
			unmarshalWithRegistry(t, data, &out)
			assert.True(t, out.Amount.Equal(decimal.RequireFromString(tc.want)))
		})
	}
}
