package wallet

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/tyler-smith/go-bip39"
)

// MnemonicSigner 助记词签名器
//
// 从 BIP39 助记词派生 ed25519 密钥，在本地完成签名。
// 主要用于脚本化场景和测试，交互式场景应使用 RemoteSigner。
type MnemonicSigner struct {
	privateKey ed25519.PrivateKey
	address    string
	mu         sync.RWMutex
	locked     bool
}

// NewMnemonicSigner 从助记词创建签名器
func NewMnemonicSigner(mnemonic string, passphrase string) (*MnemonicSigner, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("invalid mnemonic")
	}

	seed := bip39.NewSeed(mnemonic, passphrase)
	privateKey := ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])

	publicKey := privateKey.Public().(ed25519.PublicKey)
	address, err := EncodeAccountAddress(publicKey)
	if err != nil {
		return nil, fmt.Errorf("derive address: %w", err)
	}

	return &MnemonicSigner{
		privateKey: privateKey,
		address:    address,
	}, nil
}

// GenerateMnemonic 生成新助记词（24词）
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return mnemonic, nil
}

// Lock 锁定签名器
func (s *MnemonicSigner) Lock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = true
}

// Unlock 解锁签名器
func (s *MnemonicSigner) Unlock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = false
}

// IsAvailable 签名器是否可用
func (s *MnemonicSigner) IsAvailable(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.locked
}

// Identity 签名器账户地址
func (s *MnemonicSigner) Identity(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.locked {
		return "", ErrSignerUnavailable
	}
	return s.address, nil
}

// signedEnvelope 已签名信封载体
type signedEnvelope struct {
	Envelope   string        `json:"envelope"`
	Signatures []txSignature `json:"signatures"`
}

type txSignature struct {
	Signer    string `json:"signer"`
	Signature string `json:"signature"`
}

// SignTransaction 签名交易信封
//
// 签名载荷为 network 与原始信封的拼接，防止跨网络重放。
func (s *MnemonicSigner) SignTransaction(ctx context.Context, envelope string, network string) (*SignResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.locked {
		return nil, ErrSignerUnavailable
	}
	if envelope == "" {
		return nil, errors.New("sign: empty envelope")
	}

	payload := []byte(network + "|" + envelope)
	signature := ed25519.Sign(s.privateKey, payload)

	signed := &signedEnvelope{
		Envelope: envelope,
		Signatures: []txSignature{
			{
				Signer:    s.address,
				Signature: base64.StdEncoding.EncodeToString(signature),
			},
		},
	}

	data, err := json.Marshal(signed)
	if err != nil {
		return nil, fmt.Errorf("marshal signed envelope: %w", err)
	}

	return &SignResult{
		Envelope:      base64.StdEncoding.EncodeToString(data),
		SignerAddress: s.address,
	}, nil
}

// Type 签名器类型
func (s *MnemonicSigner) Type() SignerType {
	return SignerTypeMnemonic
}

var _ Signer = (*MnemonicSigner)(nil)
