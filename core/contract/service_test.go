package contract

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gridsnake/v1/core/builder"
	"github.com/gridsnake/v1/core/encoding"
	"github.com/gridsnake/v1/core/intent"
	"github.com/gridsnake/v1/core/transport"
	"github.com/gridsnake/v1/core/wallet"
)

const (
	testAccount  = "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF"
	testAccount2 = "GBAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF"
	testContract = "CAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF"
	testNetwork  = "gridnet-test"
)

// stubClient 固定应答的节点客户端
type stubClient struct {
	simulateFn func(envelope string) (*transport.SimulateResult, error)
	sendCalls  atomic.Int64
}

func (s *stubClient) GetAccount(ctx context.Context, address string) (*transport.Account, error) {
	return &transport.Account{Address: address, Sequence: 7}, nil
}

func (s *stubClient) SimulateTransaction(ctx context.Context, envelope string) (*transport.SimulateResult, error) {
	if s.simulateFn != nil {
		return s.simulateFn(envelope)
	}
	return &transport.SimulateResult{Success: true}, nil
}

func (s *stubClient) SendTransaction(ctx context.Context, envelope string) (*transport.SendTxResult, error) {
	s.sendCalls.Add(1)
	return &transport.SendTxResult{Hash: "abc123", Status: transport.SendStatusPending}, nil
}

func (s *stubClient) GetTransaction(ctx context.Context, txHash string) (*transport.TxStatus, error) {
	return &transport.TxStatus{Hash: txHash, Status: transport.ConfirmStatusSuccess, Ledger: 100}, nil
}

func (s *stubClient) Ping(ctx context.Context) error { return nil }

func (s *stubClient) CallRaw(ctx context.Context, method string, params []interface{}) (interface{}, error) {
	return nil, nil
}

func (s *stubClient) Close() error { return nil }

var _ transport.Client = (*stubClient)(nil)

// stubSigner 直接放行的签名器
type stubSigner struct{}

func (stubSigner) IsAvailable(ctx context.Context) bool         { return true }
func (stubSigner) Identity(ctx context.Context) (string, error) { return "", nil }
func (stubSigner) SignTransaction(ctx context.Context, envelope, network string) (*wallet.SignResult, error) {
	return &wallet.SignResult{Envelope: "c2lnbmVk"}, nil
}
func (stubSigner) Type() wallet.SignerType { return wallet.SignerTypeRemote }

func newTestService(t *testing.T, client *stubClient) *Service {
	t.Helper()
	b := builder.NewTxBuilder(client, testNetwork)
	orch := intent.NewOrchestrator(client, b, stubSigner{}, testNetwork, intent.Options{})
	svc, err := NewService(testContract, client, b, orch, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func simulateReturning(v encoding.Value) func(string) (*transport.SimulateResult, error) {
	return func(string) (*transport.SimulateResult, error) {
		return &transport.SimulateResult{Success: true, ReturnValue: &v}, nil
	}
}

func TestNewService_InvalidContract(t *testing.T) {
	client := &stubClient{}
	b := builder.NewTxBuilder(client, testNetwork)
	orch := intent.NewOrchestrator(client, b, stubSigner{}, testNetwork, intent.Options{})

	if _, err := NewService("not-an-address", client, b, orch, nil); err == nil {
		t.Error("NewService() expected error for invalid contract address")
	}
}

func TestService_GetCompetition(t *testing.T) {
	comp := &Competition{
		SessionID:    1,
		Deadline:     1900000000,
		Status:       StatusActive,
		PrizePool:    mustAmount(t, "100.00"),
		TotalPlayers: 4,
		EntryFee:     mustAmount(t, "25.00"),
	}
	v, err := comp.ToValue()
	if err != nil {
		t.Fatalf("ToValue() error = %v", err)
	}

	client := &stubClient{simulateFn: simulateReturning(v)}
	svc := newTestService(t, client)

	got, err := svc.GetCompetition(context.Background())
	if err != nil {
		t.Fatalf("GetCompetition() error = %v", err)
	}
	if got == nil || got.SessionID != 1 || got.Status != StatusActive {
		t.Errorf("GetCompetition() = %+v", got)
	}

	// 读操作不提交交易
	if client.sendCalls.Load() != 0 {
		t.Errorf("sendCalls = %v, want 0", client.sendCalls.Load())
	}
}

func TestService_GetCompetition_None(t *testing.T) {
	client := &stubClient{simulateFn: simulateReturning(encoding.Void())}
	svc := newTestService(t, client)

	got, err := svc.GetCompetition(context.Background())
	if err != nil {
		t.Fatalf("GetCompetition() error = %v", err)
	}
	if got != nil {
		t.Errorf("GetCompetition() = %+v, want nil", got)
	}
}

func TestService_HasPaid(t *testing.T) {
	client := &stubClient{simulateFn: simulateReturning(encoding.Bool(true))}
	svc := newTestService(t, client)

	paid, err := svc.HasPaid(context.Background(), testAccount)
	if err != nil {
		t.Fatalf("HasPaid() error = %v", err)
	}
	if !paid {
		t.Error("HasPaid() = false, want true")
	}

	if _, err := svc.HasPaid(context.Background(), "bad"); err == nil {
		t.Error("HasPaid() expected error for invalid account")
	}
}

func TestService_GetEntryFee(t *testing.T) {
	fee, err := encoding.I128("fee", mustAmount(t, "25.00").BigInt())
	if err != nil {
		t.Fatalf("I128() error = %v", err)
	}
	client := &stubClient{simulateFn: simulateReturning(fee)}
	svc := newTestService(t, client)

	got, err := svc.GetEntryFee(context.Background())
	if err != nil {
		t.Fatalf("GetEntryFee() error = %v", err)
	}
	if got.StringTrimmed() != "25.00" {
		t.Errorf("GetEntryFee() = %v, want 25.00", got.StringTrimmed())
	}
}

func TestService_ReadSimulationFailure(t *testing.T) {
	client := &stubClient{
		simulateFn: func(string) (*transport.SimulateResult, error) {
			return &transport.SimulateResult{Success: false, Error: "no competition"}, nil
		},
	}
	svc := newTestService(t, client)

	_, err := svc.GetLeaderboard(context.Background())
	if err == nil {
		t.Fatal("GetLeaderboard() expected error")
	}
	var simErr *intent.SimulationError
	if !errors.As(err, &simErr) {
		t.Errorf("error = %v, want *intent.SimulationError", err)
	}
}

func TestService_PayEntryFeeAndSubmitScore(t *testing.T) {
	client := &stubClient{}
	svc := newTestService(t, client)
	ctx := context.Background()

	// 未付费的提交被门禁拦下
	if _, err := svc.SubmitScore(ctx, testAccount, 100); !errors.Is(err, intent.ErrEntryNotPaid) {
		t.Fatalf("SubmitScore() error = %v, want ErrEntryNotPaid", err)
	}

	res, err := svc.PayEntryFee(ctx, testAccount)
	if err != nil {
		t.Fatalf("PayEntryFee() error = %v", err)
	}
	if res.TxHash != "abc123" {
		t.Errorf("TxHash = %v", res.TxHash)
	}

	if _, err := svc.SubmitScore(ctx, testAccount, 100); err != nil {
		t.Fatalf("SubmitScore() error = %v", err)
	}

	// 门禁已消耗，第二次提交需再次付费
	if _, err := svc.SubmitScore(ctx, testAccount, 200); !errors.Is(err, intent.ErrEntryNotPaid) {
		t.Fatalf("second SubmitScore() error = %v, want ErrEntryNotPaid", err)
	}
}

func TestService_CreateCompetitionValidation(t *testing.T) {
	client := &stubClient{}
	svc := newTestService(t, client)
	ctx := context.Background()
	future := time.Now().Add(24 * time.Hour).Unix()

	tests := []struct {
		name   string
		params CreateCompetitionParams
	}{
		{
			name: "BadAdmin",
			params: CreateCompetitionParams{
				Admin: "bad", SessionID: 1, Deadline: future, EntryFee: mustAmount(t, "25.00"),
			},
		},
		{
			name: "SessionIDOverflow",
			params: CreateCompetitionParams{
				Admin: testAccount, SessionID: 1 << 40, Deadline: future, EntryFee: mustAmount(t, "25.00"),
			},
		},
		{
			name: "NegativeSessionID",
			params: CreateCompetitionParams{
				Admin: testAccount, SessionID: -1, Deadline: future, EntryFee: mustAmount(t, "25.00"),
			},
		},
		{
			name: "PastDeadline",
			params: CreateCompetitionParams{
				Admin: testAccount, SessionID: 1, Deadline: time.Now().Add(-time.Hour).Unix(), EntryFee: mustAmount(t, "25.00"),
			},
		},
		{
			name: "ZeroFee",
			params: CreateCompetitionParams{
				Admin: testAccount, SessionID: 1, Deadline: future, EntryFee: builder.Zero(),
			},
		},
		{
			name: "NilFee",
			params: CreateCompetitionParams{
				Admin: testAccount, SessionID: 1, Deadline: future,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateCompetition(ctx, tt.params); err == nil {
				t.Error("CreateCompetition() expected error")
			}
		})
	}

	// 参数拒绝发生在提交之前
	if client.sendCalls.Load() != 0 {
		t.Errorf("sendCalls = %v, want 0", client.sendCalls.Load())
	}

	// 合法参数正常走完管线
	if _, err := svc.CreateCompetition(ctx, CreateCompetitionParams{
		Admin: testAccount, SessionID: 1, Deadline: future, EntryFee: mustAmount(t, "25.00"),
	}); err != nil {
		t.Fatalf("CreateCompetition() error = %v", err)
	}

	// 同一场次不同管理员都放行，唯一性由合约裁决
	if _, err := svc.CreateCompetition(ctx, CreateCompetitionParams{
		Admin: testAccount2, SessionID: 1, Deadline: future, EntryFee: mustAmount(t, "25.00"),
	}); err != nil {
		t.Fatalf("CreateCompetition() for second admin error = %v", err)
	}
}

func TestService_EndCompetition(t *testing.T) {
	client := &stubClient{}
	svc := newTestService(t, client)

	res, err := svc.EndCompetition(context.Background(), testAccount)
	if err != nil {
		t.Fatalf("EndCompetition() error = %v", err)
	}
	if res.TxHash != "abc123" {
		t.Errorf("TxHash = %v", res.TxHash)
	}

	if _, err := svc.EndCompetition(context.Background(), "bad"); err == nil {
		t.Error("EndCompetition() expected error for invalid admin")
	}
}
