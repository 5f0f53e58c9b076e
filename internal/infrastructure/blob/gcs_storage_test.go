package blob_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/rochas-api/internal/infrastructure/blob"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t,
		"https://storage.googleapis.com/fotos/rochas/1700000000000_Branco_Siena.jpg",
		blob.PublicURL("https://storage.googleapis.com/", "fotos", "rochas/1700000000000_Branco_Siena.jpg"))
	assert.Equal(t,
		"http://cdn.local/b/rochas/a%23b.png",
		blob.PublicURL("http://cdn.local", "b", "rochas/a#b.png"))
}
