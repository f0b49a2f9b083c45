package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Bootstrap(ctx context.Context) error        { return f.record("bootstrap") }
func (f *fakeExec) ListCustomers(ctx context.Context) error    { return f.record("customers") }
func (f *fakeExec) AddCustomer(ctx context.Context) error      { return f.record("addcustomer") }
func (f *fakeExec) EditCustomer(ctx context.Context) error     { return f.record("editcustomer") }
func (f *fakeExec) DeleteCustomer(ctx context.Context) error   { return f.record("delcustomer") }
func (f *fakeExec) ListCredentials(ctx context.Context) error  { return f.record("creds") }
func (f *fakeExec) AddCredential(ctx context.Context) error    { return f.record("addcred") }
func (f *fakeExec) EditCredential(ctx context.Context) error   { return f.record("editcred") }
func (f *fakeExec) ShowCredential(ctx context.Context) error   { return f.record("showcred") }
func (f *fakeExec) DeleteCredential(ctx context.Context) error { return f.record("delcred") }
func (f *fakeExec) Sync(ctx context.Context) error             { return f.record("sync") }
func (f *fakeExec) Conflicts(ctx context.Context) error        { return f.record("conflicts") }
func (f *fakeExec) Resolve(ctx context.Context) error          { return f.record("resolve") }
func (f *fakeExec) ToggleOffline(ctx context.Context) error    { return f.record("offline") }
func (f *fakeExec) ShowLogs(ctx context.Context) error         { return f.record("logs") }
func (f *fakeExec) Status(ctx context.Context) error           { return f.record("status") }

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"addcustomer",
		"customers",
		"addcred",
		"sync",
		"conflicts",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "addcustomer", "customers", "addcred", "sync", "conflicts"}
	if len(exec.calls) < len(wantOrder) {
		t.Fatalf("few calls: %+v", exec.calls)
	}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_RequiresLogin(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("customers\nsync\nexit\n")
	exec := &fakeExec{loggedIn: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("commands must be gated before login, got %v", exec.calls)
	}
}

func TestRunREPL_UnknownAndQuit(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("nosuchcmd\nquit\n")
	exec := &fakeExec{loggedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
