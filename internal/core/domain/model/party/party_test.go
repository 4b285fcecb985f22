package party_test

import (
	"testing"

	"bagpub/internal/core/domain/model/party"

	"github.com/stretchr/testify/assert"
)

func TestClient_DisplayName(t *testing.T) {
	assert.Equal(t, "Boulangerie Martin", party.Client{CompanyName: "Boulangerie Martin", Username: "martin"}.DisplayName())
	assert.Equal(t, "martin", party.Client{CompanyName: "  ", Username: "martin"}.DisplayName())
}
