package wallet

import (
	"encoding/base32"
	"fmt"
)

// 地址版本字节：base32 编码后决定首字符
const (
	versionAccount  byte = 6 << 3 // 'G' 账户地址
	versionContract byte = 2 << 3 // 'C' 合约地址
)

var addrEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// EncodeAccountAddress 从 ed25519 公钥编码账户地址
//
// 格式：base32(版本字节 || 公钥32字节 || CRC16校验和)，共 56 字符。
func EncodeAccountAddress(publicKey []byte) (string, error) {
	return encodeAddress(versionAccount, publicKey)
}

// EncodeContractAddress 从合约哈希编码合约地址
func EncodeContractAddress(contractHash []byte) (string, error) {
	return encodeAddress(versionContract, contractHash)
}

func encodeAddress(version byte, payload []byte) (string, error) {
	if len(payload) != 32 {
		return "", fmt.Errorf("encode address: payload must be 32 bytes, got %d", len(payload))
	}

	raw := make([]byte, 0, 35)
	raw = append(raw, version)
	raw = append(raw, payload...)

	checksum := crc16(raw)
	raw = append(raw, byte(checksum&0xff), byte(checksum>>8))

	return addrEncoding.EncodeToString(raw), nil
}

// crc16 CRC16-XModem 校验和
func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
