package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func andClauses(t *testing.T, filter bson.M) bson.A {
	t.Helper()
	and, ok := filter["$and"].(bson.A)
	require.True(t, ok, "filter must be an $and document")
	return and
}

func TestBuildAttributeFilterAlwaysRestrictsToActive(t *testing.T) {
	filter := BuildAttributeFilter("", url.Values{})

	and := andClauses(t, filter)
	require.Len(t, and, 1)

	or, ok := and[0].(bson.M)["$or"].(bson.A)
	require.True(t, ok)
	assert.Contains(t, or, bson.M{"isActive": true})
	assert.Contains(t, or, bson.M{"isActive": bson.M{"$exists": false}})
	assert.Contains(t, or, bson.M{"isActive": nil})
}

func TestBuildAttributeFilterCategoryIsAnchoredAndCaseInsensitive(t *testing.T) {
	filter := BuildAttributeFilter("Electronics", url.Values{})

	and := andClauses(t, filter)
	require.Len(t, and, 2)

	re, ok := and[1].(bson.M)["category"].(primitive.Regex)
	require.True(t, ok)
	assert.Equal(t, "^Electronics$", re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestBuildAttributeFilterBlankCategoryAddsNoClause(t *testing.T) {
	filter := BuildAttributeFilter("   ", url.Values{})
	assert.Len(t, andClauses(t, filter), 1)
}

func TestBuildAttributeFilterPriceBounds(t *testing.T) {
	params := url.Values{}
	params.Set("minPrice", "10.50")
	params.Set("maxPrice", "99.99")

	filter := BuildAttributeFilter("", params)
	and := andClauses(t, filter)
	require.Len(t, and, 2)

	price, ok := and[1].(bson.M)["price"].(bson.M)
	require.True(t, ok)
	assert.Contains(t, price, "$gte")
	assert.Contains(t, price, "$lte")
}

func TestBuildAttributeFilterStringAttributeChecksBothLocations(t *testing.T) {
	params := url.Values{}
	params.Set("brand", "Sony")

	filter := BuildAttributeFilter("", params)
	and := andClauses(t, filter)
	require.Len(t, and, 2)

	or, ok := and[1].(bson.M)["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)

	re := or[0].(bson.M)["brand"].(primitive.Regex)
	assert.Equal(t, "^Sony$", re.Pattern)

	nested := or[1].(bson.M)["attributes.brand"].(primitive.Regex)
	assert.Equal(t, "^Sony$", nested.Pattern)
}

func TestBuildAttributeFilterMultipleValuesMatchAny(t *testing.T) {
	params := url.Values{}
	params.Add("color", "Red")
	params.Add("color", "Blue, Green")

	filter := BuildAttributeFilter("", params)
	and := andClauses(t, filter)
	require.Len(t, and, 2)

	// One alternative per value, each itself an either-field $or.
	or, ok := and[1].(bson.M)["$or"].(bson.A)
	require.True(t, ok)
	assert.Len(t, or, 3)
}

func TestBuildAttributeFilterRangeSuffixes(t *testing.T) {
	params := url.Values{}
	params.Set("ram_min", "8")
	params.Set("ram_max", "32")

	filter := BuildAttributeFilter("", params)
	and := andClauses(t, filter)
	require.Len(t, and, 3)

	var sawMin, sawMax bool
	for _, clause := range and[1:] {
		or := clause.(bson.M)["$or"].(bson.A)
		bound := or[0].(bson.M)["ram"].(bson.M)
		if _, ok := bound["$gte"]; ok {
			assert.Equal(t, 8.0, bound["$gte"])
			sawMin = true
		}
		if _, ok := bound["$lte"]; ok {
			assert.Equal(t, 32.0, bound["$lte"])
			sawMax = true
		}
	}
	assert.True(t, sawMin)
	assert.True(t, sawMax)
}

func TestBuildAttributeFilterSkipsBlankAndUnparseable(t *testing.T) {
	params := url.Values{}
	params.Set("brand", "   ")
	params.Set("ram_min", "not-a-number")
	params.Set("screen_max", "")

	filter := BuildAttributeFilter("", params)
	assert.Len(t, andClauses(t, filter), 1)
}

func TestBuildAttributeFilterIgnoresReservedParams(t *testing.T) {
	params := url.Values{}
	params.Set("page", "2")
	params.Set("size", "50")
	params.Set("sortBy", "price")
	params.Set("sortDir", "desc")
	params.Set("category", "ignored-here")

	filter := BuildAttributeFilter("", params)
	assert.Len(t, andClauses(t, filter), 1)
}

func TestBuildAttributeFilterRegexSpecialCharactersAreLiteral(t *testing.T) {
	params := url.Values{}
	params.Set("model", "A+ (2024)")

	filter := BuildAttributeFilter("", params)
	and := andClauses(t, filter)
	require.Len(t, and, 2)

	or := and[1].(bson.M)["$or"].(bson.A)
	re := or[0].(bson.M)["model"].(primitive.Regex)
	assert.Equal(t, `^A\+ \(2024\)$`, re.Pattern)
}

func TestSplitValues(t *testing.T) {
	out := splitValues([]string{" a , b ", "", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, out)
}
