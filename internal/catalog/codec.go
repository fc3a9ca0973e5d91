package catalog

import (
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var tDecimal = reflect.TypeOf(decimal.Decimal{})

// decimalCodec maps decimal.Decimal to BSON Decimal128 so prices keep
// exact decimal representation in the database. Legacy documents that
// stored prices as doubles or strings still decode.
type decimalCodec struct{}

func (decimalCodec) EncodeValue(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tDecimal {
		return bsoncodec.ValueEncoderError{
			Name:     "decimalCodec.EncodeValue",
			Types:    []reflect.Type{tDecimal},
			Received: val,
		}
	}

	dec := val.Interface().(decimal.Decimal)
	d128, err := primitive.ParseDecimal128(dec.String())
	if err != nil {
		return fmt.Errorf("cannot represent %s as decimal128: %w", dec, err)
	}
	return vw.WriteDecimal128(d128)
}

func (decimalCodec) DecodeValue(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tDecimal {
		return bsoncodec.ValueDecoderError{
			Name:     "decimalCodec.DecodeValue",
			Types:    []reflect.Type{tDecimal},
			Received: val,
		}
	}

	var dec decimal.Decimal
	switch vr.Type() {
	case bsontype.Decimal128:
		d128, err := vr.ReadDecimal128()
		if err != nil {
			return err
		}
		dec, err = decimal.NewFromString(d128.String())
		if err != nil {
			return err
		}
	case bsontype.Double:
		f, err := vr.ReadDouble()
		if err != nil {
			return err
		}
		dec = decimal.NewFromFloat(f)
	case bsontype.Int32:
		i, err := vr.ReadInt32()
		if err != nil {
			return err
		}
		dec = decimal.NewFromInt32(i)
	case bsontype.Int64:
		i, err := vr.ReadInt64()
		if err != nil {
			return err
		}
		dec = decimal.NewFromInt(i)
	case bsontype.String:
		s, err := vr.ReadString()
		if err != nil {
			return err
		}
		dec, err = decimal.NewFromString(s)
		if err != nil {
			return err
		}
	case bsontype.Null:
		if err := vr.ReadNull(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("cannot decode %v into decimal.Decimal", vr.Type())
	}

	val.Set(reflect.ValueOf(dec))
	return nil
}

func newRegistry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	reg.RegisterTypeEncoder(tDecimal, decimalCodec{})
	reg.RegisterTypeDecoder(tDecimal, decimalCodec{})
	return reg
}
