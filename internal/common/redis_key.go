package common

import (
	"fmt"
	"strings"
)

func RedisKeyTrackedTx(chain, txHash string) string {
	return fmt.Sprintf("trackedtx:%s:%s", chain, strings.ToLower(txHash))
}
