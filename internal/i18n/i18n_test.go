package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedLocales(t *testing.T) {
	require.NoError(t, Initialize())

	assert.Equal(t, []string{"en", "zh_TW"}, GetSupportedLanguages())
	assert.Equal(t, "Product not found", T("en", KeyProductNotFound))
	assert.Equal(t, "找不到商品", T("zh_TW", KeyProductNotFound))
}

func TestTranslateFallbacks(t *testing.T) {
	require.NoError(t, Initialize())

	// Unknown language falls back to English
	assert.Equal(t, "Product deleted", T("fr", KeyProductDeleted))
	// Unknown key comes back unchanged
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
	// Arguments are formatted into the message
	assert.Equal(t, "Insufficient stock: 3 available", T("en", KeySaleInsufficientStock, 3))
}

func TestLocalesHaveSameKeys(t *testing.T) {
	require.NoError(t, Initialize())

	en := instance.translations["en"]
	zh := instance.translations["zh_TW"]
	require.NotEmpty(t, en)
	for key := range en {
		assert.Contains(t, zh, key, "zh_TW is missing %s", key)
	}
	assert.Len(t, zh, len(en))
}
