package netutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateHttpUrl(t *testing.T) {
	for _, valid := range []string{
		"https://api.devnet.solana.com",
		"http://127.0.0.1:8899",
		"http://localhost:8899",
		"https://[::1]:8899/rpc",
		"https://rpc.example.com/?api-key=abc",
	} {
		assert.NoError(t, ValidateHttpUrl(valid, false), valid)
	}

	for _, invalid := range []string{
		"",
		"api.devnet.solana.com",
		"ws://api.devnet.solana.com",
		"https://",
		"http://localhost:0",
		"http://localhost:70000",
		"http://bad_domain!.com",
		"https://" + strings.Repeat("a", 254) + ".com",
	} {
		assert.Error(t, ValidateHttpUrl(invalid, false), invalid)
	}

	assert.Error(t, ValidateHttpUrl("http://127.0.0.1:8899", true))
	assert.NoError(t, ValidateHttpUrl("https://api.devnet.solana.com", true))
}

func TestValidateDomainName(t *testing.T) {
	assert.NoError(t, ValidateDomainName("api.mainnet-beta.solana.com"))
	assert.NoError(t, ValidateDomainName("api.mainnet-beta.solana.com."))
	assert.Error(t, ValidateDomainName("."))
	assert.Error(t, ValidateDomainName(""))
	assert.Error(t, ValidateDomainName(strings.Repeat("a", 254)))
}
