package client

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// ErrCorruptPayload は読み出したペイロードが別のインデックス向けに書かれていた場合のエラー
var ErrCorruptPayload = errors.New("client: corrupt payload")

// Payload は index に紐づくチェックサム付きペイロードを作る。
// 形式は "<body>#<xxh3(index:body) を16進16桁>"
func Payload(index int, body string) string {
	return fmt.Sprintf("%s#%016x", body, payloadSum(index, body))
}

// VerifyPayload は payload が index に対して Payload で作られたものかを検証する
func VerifyPayload(index int, payload any) error {
	s, ok := payload.(string)
	if !ok {
		return fmt.Errorf("%w: index %d holds %T", ErrCorruptPayload, index, payload)
	}
	i := strings.LastIndexByte(s, '#')
	if i < 0 {
		return fmt.Errorf("%w: index %d holds unstamped %q", ErrCorruptPayload, index, s)
	}
	sum, err := strconv.ParseUint(s[i+1:], 16, 64)
	if err != nil {
		return fmt.Errorf("%w: index %d: %v", ErrCorruptPayload, index, err)
	}
	if sum != payloadSum(index, s[:i]) {
		return fmt.Errorf("%w: index %d holds %q", ErrCorruptPayload, index, s)
	}
	return nil
}

func payloadSum(index int, body string) uint64 {
	return xxh3.HashString(strconv.Itoa(index) + ":" + body)
}
