package options

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap/zaptest"

	"answerlens/internal/core"
	"answerlens/internal/store"
)

func newTestPanel(t *testing.T, repo store.Repository) (*Panel, *Recorder) {
	t.Helper()
	rec := &Recorder{}
	p, err := NewPanel(context.Background(), repo, rec, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewPanel failed: %v", err)
	}
	return p, rec
}

func TestNewPanelDefaults(t *testing.T) {
	p, _ := newTestPanel(t, store.NewMemory())

	if p.Selected() != core.ProviderChatGPT {
		t.Errorf("selected = %q, want chatgpt", p.Selected())
	}
	if err := p.Select(core.ProviderGPT3); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	want := Fields{Endpoint: "https://api.openai.com"}
	if got := p.Fields(); got != want {
		t.Errorf("fields = %+v, want %+v", got, want)
	}
}

func TestNewPanelSeedsFromStore(t *testing.T) {
	repo := store.NewMemory()
	saved := core.ProviderConfig{Endpoint: "https://x.openai.azure.com", APIKey: "k", Model: "text-davinci-003"}
	if err := repo.Save(context.Background(), core.ProviderGPT3, saved); err != nil {
		t.Fatal(err)
	}

	p, _ := newTestPanel(t, repo)
	if p.Selected() != core.ProviderGPT3 {
		t.Errorf("selected = %q, want gpt3", p.Selected())
	}
	want := Fields{Endpoint: saved.Endpoint, APIKey: saved.APIKey, Model: saved.Model}
	if got := p.Fields(); got != want {
		t.Errorf("fields = %+v, want %+v", got, want)
	}
}

func TestSaveValidation(t *testing.T) {
	testCases := []struct {
		name      string
		model     string
		key       string
		wantField string
		wantAlert string
	}{
		{"missing model", "", "sk-1", "model", MsgMissingModel},
		{"missing both reports model first", "", "", "model", MsgMissingModel},
		{"missing key", "text-davinci-003", "", "apiKey", MsgMissingKey},
		{"blank key", "text-davinci-003", "   ", "apiKey", MsgMissingKey},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := store.NewMemory()
			p, rec := newTestPanel(t, repo)
			if err := p.Select(core.ProviderGPT3); err != nil {
				t.Fatal(err)
			}
			p.SetModel(tc.model)
			p.SetAPIKey(tc.key)

			err := p.Save(context.Background())
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.wantField {
				t.Errorf("field = %q, want %q", verr.Field, tc.wantField)
			}
			if !reflect.DeepEqual(rec.Alerts(), []string{tc.wantAlert}) {
				t.Errorf("alerts = %v, want [%s]", rec.Alerts(), tc.wantAlert)
			}
			if len(rec.Toasts()) != 0 {
				t.Errorf("unexpected toasts: %v", rec.Toasts())
			}

			configs, _ := repo.Load(context.Background())
			if _, ok := configs.Configs[core.ProviderGPT3]; ok {
				t.Error("nothing should be persisted on validation failure")
			}
			if configs.Provider != core.ProviderChatGPT {
				t.Errorf("active provider changed to %q", configs.Provider)
			}
		})
	}
}

func TestSaveEmptyKeyKeepsPersistedSettings(t *testing.T) {
	repo := store.NewMemory()
	previous := core.ProviderConfig{Endpoint: "https://api.openai.com", APIKey: "sk-old", Model: "text-davinci-003"}
	if err := repo.Save(context.Background(), core.ProviderGPT3, previous); err != nil {
		t.Fatal(err)
	}

	p, _ := newTestPanel(t, repo)
	p.SetAPIKey("")
	p.SetModel("text-curie-001")
	if err := p.Save(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}

	configs, _ := repo.Load(context.Background())
	if configs.Configs[core.ProviderGPT3] != previous {
		t.Errorf("persisted = %+v, want %+v", configs.Configs[core.ProviderGPT3], previous)
	}
}

func TestSaveGPT3(t *testing.T) {
	repo := store.NewMemory()
	chat := core.ProviderConfig{Endpoint: "https://chat.example.com"}
	if err := repo.Save(context.Background(), core.ProviderChatGPT, chat); err != nil {
		t.Fatal(err)
	}

	p, rec := newTestPanel(t, repo)
	if err := p.Select(core.ProviderGPT3); err != nil {
		t.Fatal(err)
	}
	p.SetEndpoint("")
	p.SetAPIKey(" sk-new ")
	p.SetModel("text-davinci-003")

	if err := p.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !reflect.DeepEqual(rec.Toasts(), []string{MsgSaved}) {
		t.Errorf("toasts = %v", rec.Toasts())
	}
	if len(rec.Alerts()) != 0 {
		t.Errorf("unexpected alerts: %v", rec.Alerts())
	}

	configs, _ := repo.Load(context.Background())
	if configs.Provider != core.ProviderGPT3 {
		t.Errorf("active = %q, want gpt3", configs.Provider)
	}
	want := core.ProviderConfig{Endpoint: core.DefaultEndpoint, APIKey: "sk-new", Model: "text-davinci-003"}
	if configs.Configs[core.ProviderGPT3] != want {
		t.Errorf("gpt3 = %+v, want %+v", configs.Configs[core.ProviderGPT3], want)
	}
	if configs.Configs[core.ProviderChatGPT] != chat {
		t.Errorf("chatgpt settings were overwritten: %+v", configs.Configs[core.ProviderChatGPT])
	}
}

func TestSaveChatGPTNeedsNoCredentials(t *testing.T) {
	repo := store.NewMemory()
	p, rec := newTestPanel(t, repo)

	if err := p.Save(context.Background()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if len(rec.Toasts()) != 1 {
		t.Errorf("toasts = %v", rec.Toasts())
	}
	configs, _ := repo.Load(context.Background())
	if got := configs.Configs[core.ProviderChatGPT].Endpoint; got != core.DefaultEndpoint {
		t.Errorf("endpoint = %q", got)
	}
}

func TestEditsArePerVariant(t *testing.T) {
	p, _ := newTestPanel(t, store.NewMemory())
	p.SetModel("gpt-4")
	if err := p.Select(core.ProviderGPT3); err != nil {
		t.Fatal(err)
	}
	p.SetModel("text-davinci-003")

	if err := p.Select(core.ProviderChatGPT); err != nil {
		t.Fatal(err)
	}
	if got := p.Fields().Model; got != "gpt-4" {
		t.Errorf("chatgpt model = %q, want gpt-4", got)
	}
}

func TestSelectUnknown(t *testing.T) {
	p, _ := newTestPanel(t, store.NewMemory())
	if err := p.Select("bard"); err == nil {
		t.Error("expected error for unknown provider")
	}
	if p.Selected() != core.ProviderChatGPT {
		t.Errorf("selection changed to %q", p.Selected())
	}
}

type failingRepo struct{ store.Repository }

func (failingRepo) Save(context.Context, core.ProviderType, core.ProviderConfig) error {
	return errors.New("disk full")
}

func TestSaveStoreError(t *testing.T) {
	p, rec := newTestPanel(t, failingRepo{store.NewMemory()})
	if err := p.Save(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(rec.Toasts()) != 0 {
		t.Errorf("no toast expected on failure, got %v", rec.Toasts())
	}
}
