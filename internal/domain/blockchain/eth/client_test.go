package eth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseChainlist(t *testing.T) {
	page := `<html><head><title>Apollo</title></head><body>
<div>Apollo Mainnet</div>
<script id="__NEXT_DATA__" type="application/json">{"props":{"pageProps":{"chain":{"name":"Apollo Mainnet","rpc":[{"url":"https://mainnet-rpc.apolloscan.io"},{"url":"wss://ws.apolloscan.io"},{"url":"https://rpc2.apolloscan.io"}]}}}}</script>
</body></html>`

	rpcs, err := parseChainlist(page)
	require.NoError(t, err)
	require.Equal(t, []string{"https://mainnet-rpc.apolloscan.io", "https://rpc2.apolloscan.io"}, rpcs)
}

func TestParseChainlist_noData(t *testing.T) {
	_, err := parseChainlist("<html><body>maintenance</body></html>")
	require.Error(t, err)
}
