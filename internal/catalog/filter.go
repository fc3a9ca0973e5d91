package catalog

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Query keys that carry paging/sorting and must never be interpreted as
// attribute filters.
var reservedParams = map[string]bool{
	"page":     true,
	"size":     true,
	"sortBy":   true,
	"sortDir":  true,
	"category": true,
	"minPrice": true,
	"maxPrice": true,
}

// BuildAttributeFilter translates a category plus raw query parameters
// into a Mongo filter document.
//
// Rules:
//   - results are always restricted to active products, where a missing
//     or null isActive flag counts as active;
//   - the category, when non-blank, must match exactly (case-insensitive);
//   - minPrice/maxPrice become inclusive bounds on the price field;
//   - <name>_min / <name>_max become inclusive numeric bounds checked
//     against both the top-level field and attributes.<name>;
//   - every other key is an exact case-insensitive string match, again
//     against both field locations; multiple values for one key (repeated
//     params or comma lists) match if any value matches;
//   - blank values and unparseable numbers drop that one condition
//     rather than failing the query.
func BuildAttributeFilter(category string, params url.Values) bson.M {
	and := bson.A{activeFilter()}

	if c := strings.TrimSpace(category); c != "" {
		and = append(and, bson.M{"category": exactFold(c)})
	}

	if cond := priceCondition(params.Get("minPrice"), params.Get("maxPrice")); cond != nil {
		and = append(and, cond)
	}

	for key, raw := range params {
		if reservedParams[key] {
			continue
		}

		switch {
		case strings.HasSuffix(key, "_min"):
			name := strings.TrimSuffix(key, "_min")
			if cond := rangeCondition(name, firstNonBlank(raw), "$gte"); cond != nil {
				and = append(and, cond)
			}
		case strings.HasSuffix(key, "_max"):
			name := strings.TrimSuffix(key, "_max")
			if cond := rangeCondition(name, firstNonBlank(raw), "$lte"); cond != nil {
				and = append(and, cond)
			}
		default:
			if cond := stringCondition(key, splitValues(raw)); cond != nil {
				and = append(and, cond)
			}
		}
	}

	return bson.M{"$and": and}
}

// activeFilter matches documents that are active or predate the flag.
func activeFilter() bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"isActive": true},
		bson.M{"isActive": bson.M{"$exists": false}},
		bson.M{"isActive": nil},
	}}
}

// exactFold is an anchored case-insensitive exact match. Anchoring keeps
// filtering exact rather than substring: "128GB" must not match "128GB Pro".
func exactFold(value string) primitive.Regex {
	return primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(value) + "$",
		Options: "i",
	}
}

// eitherField applies cond to the top-level field and to the nested
// attributes map entry of the same name. Facet values may live in either
// place depending on document vintage.
func eitherField(name string, cond any) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{name: cond},
		bson.M{"attributes." + name: cond},
	}}
}

// stringCondition builds the exact-match condition for one attribute,
// OR'ing across the given values. Returns nil when no usable value remains.
func stringCondition(name string, values []string) bson.M {
	var ors bson.A
	for _, v := range values {
		ors = append(ors, eitherField(name, exactFold(v)))
	}
	switch len(ors) {
	case 0:
		return nil
	case 1:
		return ors[0].(bson.M)
	default:
		return bson.M{"$or": ors}
	}
}

// rangeCondition builds a numeric bound for one attribute. Unparseable
// values are dropped silently.
func rangeCondition(name, raw, op string) bson.M {
	if name == "" || raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return eitherField(name, bson.M{op: f})
}

// priceCondition builds the inclusive price range from minPrice/maxPrice.
// Prices parse as decimals so the bounds compare exactly against the
// stored Decimal128 values.
func priceCondition(minRaw, maxRaw string) bson.M {
	bounds := bson.M{}
	if v, err := decimal.NewFromString(strings.TrimSpace(minRaw)); minRaw != "" && err == nil {
		bounds["$gte"] = v
	}
	if v, err := decimal.NewFromString(strings.TrimSpace(maxRaw)); maxRaw != "" && err == nil {
		bounds["$lte"] = v
	}
	if len(bounds) == 0 {
		return nil
	}
	return bson.M{"price": bounds}
}

// splitValues flattens repeated params and comma-separated lists into
// trimmed, non-blank values.
func splitValues(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, v := range strings.Split(r, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func firstNonBlank(raw []string) string {
	for _, r := range raw {
		if v := strings.TrimSpace(r); v != "" {
			return v
		}
	}
	return ""
}
