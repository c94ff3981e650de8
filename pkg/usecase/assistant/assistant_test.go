package assistant_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/butler/pkg/adapter"
	"github.com/m-mizutani/butler/pkg/model"
	"github.com/m-mizutani/butler/pkg/repository"
	"github.com/m-mizutani/butler/pkg/service/planner"
	"github.com/m-mizutani/butler/pkg/session"
	"github.com/m-mizutani/butler/pkg/task"
	"github.com/m-mizutani/butler/pkg/usecase/assistant"
	"google.golang.org/genai"
)

// scriptedGemini serves structured calls (plan, command plan) from a queue
// of JSON payloads and free-text calls from answerText. When oracleErr is
// set every call fails.
type scriptedGemini struct {
	mu           sync.Mutex
	jsonPayloads []string
	answerText   string
	oracleErr    error
}

func (g *scriptedGemini) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.oracleErr != nil {
		return nil, g.oracleErr
	}

	if config != nil && config.ResponseMIMEType == "application/json" {
		if len(g.jsonPayloads) == 0 {
			return nil, errors.New("no scripted payload left")
		}
		payload := g.jsonPayloads[0]
		g.jsonPayloads = g.jsonPayloads[1:]
		return textResponse(payload), nil
	}

	if g.answerText != "" {
		return textResponse(g.answerText), nil
	}
	return nil, errors.New("free-text oracle offline")
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{{Text: text}},
				},
			},
		},
	}
}

// mockVoice queues user replies and records everything spoken
type mockVoice struct {
	mu     sync.Mutex
	inputs []string
	spoken []string
}

func (v *mockVoice) Say(ctx context.Context, text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.spoken = append(v.spoken, text)
	return nil
}

func (v *mockVoice) Listen(ctx context.Context, mode model.InputMode) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.inputs) == 0 {
		return "", adapter.ErrInputClosed
	}
	next := v.inputs[0]
	v.inputs = v.inputs[1:]
	return next, nil
}

func (v *mockVoice) Spoken() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, len(v.spoken))
	copy(out, v.spoken)
	return out
}

func (v *mockVoice) spokenJoined() string {
	return strings.Join(v.Spoken(), "\n")
}

// mockShell records executed commands and fails those listed in failing
type mockShell struct {
	mu      sync.Mutex
	ran     []string
	failing map[string]string
	outputs map[string]string
}

func (s *mockShell) Run(ctx context.Context, command string) *model.CommandResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ran = append(s.ran, command)

	if msg, ok := s.failing[command]; ok {
		return &model.CommandResult{Success: false, Error: msg}
	}
	return &model.CommandResult{Success: true, Output: s.outputs[command]}
}

func (s *mockShell) Ran() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ran))
	copy(out, s.ran)
	return out
}

// mockSearcher returns a fixed digest
type mockSearcher struct {
	digest string
	err    error
	calls  int
}

func (s *mockSearcher) Search(ctx context.Context, query string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.digest, nil
}

// stubHandler is a scriptable task handler
type stubHandler struct {
	intent   model.Action
	required []string
	result   string
	err      error
	got      map[string]string
}

func (h *stubHandler) Intent() model.Action { return h.intent }
func (h *stubHandler) Required() []string   { return h.required }
func (h *stubHandler) Execute(ctx context.Context, entities map[string]string) (string, error) {
	h.got = entities
	return h.result, h.err
}

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)

type fixture struct {
	asst   *assistant.Assistant
	voice  *mockVoice
	shell  *mockShell
	repo   *repository.Memory
	store  *session.Store
	gemini *scriptedGemini
}

type fixtureInput struct {
	jsonPayloads []string
	answerText   string
	oracleErr    error
	inputs       []string
	failing      map[string]string
	outputs      map[string]string
	handlers     []task.Handler
	search       task.Searcher
	alarmSound   string
}

func newFixture(t *testing.T, in fixtureInput) *fixture {
	t.Helper()

	gemini := &scriptedGemini{
		jsonPayloads: in.jsonPayloads,
		answerText:   in.answerText,
		oracleErr:    in.oracleErr,
	}
	voice := &mockVoice{inputs: in.inputs}
	shell := &mockShell{failing: in.failing, outputs: in.outputs}
	repo := repository.NewMemory()

	store, err := session.New(t.TempDir())
	gt.NoError(t, err)

	asst, err := assistant.New(assistant.Input{
		Planner:  planner.New(gemini),
		Registry: task.New(in.handlers...),
		Repo:     repo,
		Session:  store,
		Voice:    voice,
		Shell:    shell,
		Search:   in.search,
		Config: assistant.Config{
			InitialMode: model.InputModeText,
			AlarmSound:  in.alarmSound,
		},
		Now: func() time.Time { return testNow },
	})
	gt.NoError(t, err)

	return &fixture{asst: asst, voice: voice, shell: shell, repo: repo, store: store, gemini: gemini}
}

func (f *fixture) handle(t *testing.T, utterance string) bool {
	t.Helper()
	shutdown, err := f.asst.HandleUtterance(context.Background(), utterance)
	gt.NoError(t, err)
	return shutdown
}

func TestPlannerUnavailableFallsBack(t *testing.T) {
	f := newFixture(t, fixtureInput{
		oracleErr: errors.New("connection refused"),
	})

	f.handle(t, "list my downloads folder")

	spoken := f.voice.spokenJoined()
	gt.S(t, spoken).Contains("higher consciousness")
	// the fallback plan still runs the command path; with the oracle down
	// the command plan cannot be produced, so nothing reaches the shell
	gt.A(t, f.shell.Ran()).Length(0)
	gt.S(t, spoken).Contains("couldn't devise a command")
}

func TestMalformedPlanFallsBack(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{
			"Certainly! Here is what I think you should do.",
			`{"commands":"echo hello","output_type":"task"}`,
		},
	})

	f.handle(t, "echo hello")

	spoken := f.voice.spokenJoined()
	gt.S(t, spoken).Contains("thought process was corrupted")
	gt.Equal(t, f.shell.Ran(), []string{"echo hello"})
	gt.S(t, spoken).Contains("completed")
}

func TestApologiesAreDistinct(t *testing.T) {
	unavailable := newFixture(t, fixtureInput{oracleErr: errors.New("down")})
	unavailable.handle(t, "anything")

	malformed := newFixture(t, fixtureInput{jsonPayloads: []string{"not json"}})
	malformed.handle(t, "anything")

	gt.S(t, unavailable.voice.spokenJoined()).NotContains("thought process")
	gt.S(t, malformed.voice.spokenJoined()).NotContains("higher consciousness")
}

func TestExecuteCmdShortCircuit(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{
			`{"action":"execute_cmd","entities":{"command_description":"prepare the workspace"}}`,
			`{"commands":"mkdir /tmp/work && cp missing.txt /tmp/work && ls /tmp/work","output_type":"task"}`,
		},
		failing: map[string]string{
			"cp missing.txt /tmp/work": "cp: cannot stat 'missing.txt': No such file or directory",
		},
	})

	f.handle(t, "prepare the workspace")

	// strict order, halted at the first failure, third never runs
	gt.Equal(t, f.shell.Ran(), []string{"mkdir /tmp/work", "cp missing.txt /tmp/work"})
	gt.S(t, f.voice.spokenJoined()).Contains("cannot stat 'missing.txt'")
}

func TestExecuteCmdAnswerOutput(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{
			`{"action":"execute_cmd","entities":{"command_description":"how many CPUs does this machine have"}}`,
			`{"commands":"nproc","output_type":"answer"}`,
		},
		outputs: map[string]string{"nproc": "8"},
	})

	f.handle(t, "how many CPUs does this machine have")

	gt.Equal(t, f.shell.Ran(), []string{"nproc"})
	// with the free-text oracle offline the static fallback carries the
	// raw output through
	gt.S(t, f.voice.spokenJoined()).Contains("8")
}

func TestExecuteCmdAnswerUsesFinalOutput(t *testing.T) {
	// earlier sub-command output never leaks into the answer
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{
			`{"action":"execute_cmd","entities":{"command_description":"count the CPUs"}}`,
			`{"commands":"ls /tmp && nproc","output_type":"answer"}`,
		},
		outputs: map[string]string{"ls /tmp": "fileA fileB", "nproc": "8"},
	})

	f.handle(t, "count the CPUs")

	gt.Equal(t, f.shell.Ran(), []string{"ls /tmp", "nproc"})
	spoken := f.voice.spokenJoined()
	gt.S(t, spoken).Contains("The result is: 8")
	gt.S(t, spoken).NotContains("fileA")
}

func TestExecuteCmdAnswerSilentFinalCommand(t *testing.T) {
	// a silent final sub-command yields the generic success message even
	// when the plan requested an answer
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{
			`{"action":"execute_cmd","entities":{"command_description":"tidy up the temp dir"}}`,
			`{"commands":"ls /tmp && touch /tmp/x","output_type":"answer"}`,
		},
		outputs: map[string]string{"ls /tmp": "fileA fileB"},
	})

	f.handle(t, "tidy up the temp dir")

	spoken := f.voice.spokenJoined()
	gt.S(t, spoken).Contains("completed")
	gt.S(t, spoken).NotContains("The result is")
}

func TestExecuteCmdAcknowledgesFirst(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{
			`{"action":"execute_cmd","entities":{"command_description":"touch a file"}}`,
			`{"commands":"touch /tmp/file","output_type":"task"}`,
		},
	})

	f.handle(t, "touch a file")

	spoken := f.voice.Spoken()
	gt.A(t, spoken).Longer(1)
	gt.S(t, spoken[0]).Contains("touch a file") // acknowledgment before any execution
}

func TestSearchAndAnswer(t *testing.T) {
	search := &mockSearcher{digest: "Answer: Paris"}
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{
			`{"action":"search_and_answer","entities":{"query":"capital of France"}}`,
		},
		answerText: "The capital of France is Paris.",
		search:     search,
	})

	f.handle(t, "what is the capital of France")

	gt.Equal(t, search.calls, 1)

	spoken := f.voice.Spoken()
	gt.A(t, spoken).Length(2)
	gt.S(t, spoken[0]).Contains("Consulting the web")
	gt.S(t, spoken[0]).Contains("capital of France")
	gt.S(t, spoken[1]).Contains("Paris")

	// exactly one assistant turn recorded: the answer, not the ack
	snapshot := f.store.Snapshot()
	gt.A(t, snapshot).Length(2)
	gt.Equal(t, snapshot[1].Role, model.RoleAssistant)
	gt.S(t, snapshot[1].Content).Contains("Paris")
}

func TestSearchFailureIsSpoken(t *testing.T) {
	search := &mockSearcher{err: errors.New("network down")}
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{
			`{"action":"search_and_answer","entities":{"query":"anything"}}`,
		},
		search: search,
	})

	f.handle(t, "look something up")

	gt.S(t, f.voice.spokenJoined()).Contains("trouble while searching")
}

func TestDirectAnswer(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"direct_answer","entities":{}}`},
		answerText:   "I'm doing well, thank you for asking.",
	})

	f.handle(t, "how are you")

	snapshot := f.store.Snapshot()
	gt.A(t, snapshot).Length(2)
	gt.Equal(t, snapshot[0], model.Message{Role: model.RoleUser, Content: "how are you"})
	gt.S(t, snapshot[1].Content).Contains("doing well")
}

func TestExitIntent(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"exit","entities":{}}`},
	})

	shutdown := f.handle(t, "goodbye")
	gt.True(t, shutdown)
	gt.S(t, f.voice.spokenJoined()).Contains("Goodbye")
}

func TestClarificationResolvesEntity(t *testing.T) {
	h := &stubHandler{
		intent:   model.ActionGetStockPrice,
		required: []string{"symbol"},
		result:   "MSFT is trading at 455.12.",
	}
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"get_stock_price","entities":{}}`},
		inputs:       []string{"MSFT"},
		handlers:     []task.Handler{h},
	})

	f.handle(t, "what's the stock price")

	gt.Equal(t, h.got["symbol"], "MSFT")
	gt.S(t, f.voice.spokenJoined()).Contains("455.12")

	// the clarification exchange is part of the recorded dialogue
	snapshot := f.store.Snapshot()
	gt.A(t, snapshot).Length(4)
	gt.Equal(t, snapshot[1].Role, model.RoleAssistant) // the question
	gt.Equal(t, snapshot[2], model.Message{Role: model.RoleUser, Content: "MSFT"})
}

func TestClarificationGivesUpAfterRetries(t *testing.T) {
	h := &stubHandler{
		intent:   model.ActionGetStockPrice,
		required: []string{"symbol"},
	}
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"get_stock_price","entities":{}}`},
		inputs:       []string{"", "", ""},
		handlers:     []task.Handler{h},
	})

	f.handle(t, "what's the stock price")

	gt.V(t, h.got).Nil() // handler never invoked
	gt.S(t, f.voice.spokenJoined()).Contains("set that request aside")
}

func TestHandlerFailureIsSpoken(t *testing.T) {
	h := &stubHandler{
		intent: model.ActionGetNews,
		err:    errors.New("news service returned 500"),
	}
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"get_news","entities":{}}`},
		handlers:     []task.Handler{h},
	})

	f.handle(t, "what's in the news")

	// loop survives and a failure explanation is spoken
	gt.S(t, f.voice.spokenJoined()).Contains("news service returned 500")
}

func TestUnregisteredCapability(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"play_music","entities":{}}`},
	})

	f.handle(t, "play some jazz")

	gt.S(t, f.voice.spokenJoined()).Contains("don't have that capability")
}

func TestRememberFact(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"remember_fact","entities":{"fact":"my birthday is May 12"}}`},
	})

	f.handle(t, "remember that my birthday is May 12")

	knowledge, err := f.repo.Knowledge(context.Background())
	gt.NoError(t, err)
	gt.S(t, knowledge).Contains("my birthday is May 12")
}

func TestSetReminderTomorrowCue(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"set_reminder","entities":{"task":"call mom"}}`},
	})

	f.handle(t, "remind me to call mom tomorrow")

	reminders, err := f.repo.ListReminders(context.Background(), false)
	gt.NoError(t, err)
	gt.A(t, reminders).Length(1)
	gt.Equal(t, reminders[0].Task, "call mom")
	gt.Equal(t, reminders[0].ScheduledAt, "2025-06-02 00:00:00")
	gt.S(t, f.voice.spokenJoined()).Contains("call mom")
}

func TestSetReminderTodayCueBeatsTomorrow(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"set_reminder","entities":{"task":"pack for tomorrow's trip"}}`},
	})

	f.handle(t, "remind me today to pack for tomorrow's trip")

	reminders, err := f.repo.ListReminders(context.Background(), false)
	gt.NoError(t, err)
	gt.A(t, reminders).Length(1)
	gt.Equal(t, reminders[0].ScheduledAt, "2025-06-01 00:00:00")
}

func TestSetReminderExplicitTimeWins(t *testing.T) {
	// the time entity takes precedence even when the utterance says "tomorrow"
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"set_reminder","entities":{"task":"submit report","time":"2025-06-10 17:00:00"}}`},
	})

	f.handle(t, "remind me tomorrow to submit the report")

	reminders, err := f.repo.ListReminders(context.Background(), false)
	gt.NoError(t, err)
	gt.A(t, reminders).Length(1)
	gt.Equal(t, reminders[0].ScheduledAt, "2025-06-10 17:00:00")
}

func TestSetReminderAsksWhenNoCue(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"set_reminder","entities":{"task":"water the plants"}}`},
		inputs:       []string{"2025-06-05 09:00:00"},
	})

	f.handle(t, "remind me to water the plants")

	gt.S(t, f.voice.spokenJoined()).Contains("When would you like to be reminded?")

	reminders, err := f.repo.ListReminders(context.Background(), false)
	gt.NoError(t, err)
	gt.A(t, reminders).Length(1)
	gt.Equal(t, reminders[0].ScheduledAt, "2025-06-05 09:00:00")
}

func TestSetReminderUnparseableTimeAborts(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"set_reminder","entities":{"task":"do the thing"}}`},
		inputs:       []string{"purple elephant"},
	})

	f.handle(t, "remind me to do the thing")

	reminders, err := f.repo.ListReminders(context.Background(), false)
	gt.NoError(t, err)
	gt.A(t, reminders).Length(0)
	gt.S(t, f.voice.spokenJoined()).Contains("haven't set anything")
}

func TestReminderIDsSurviveDeleteAll(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{
			`{"action":"set_reminder","entities":{"task":"first","time":"2025-06-02 10:00:00"}}`,
			`{"action":"delete_all_reminders","entities":{}}`,
			`{"action":"set_reminder","entities":{"task":"second","time":"2025-06-03 10:00:00"}}`,
		},
	})

	f.handle(t, "remind me about first")
	f.handle(t, "delete all reminders")
	f.handle(t, "remind me about second")

	reminders, err := f.repo.ListReminders(context.Background(), false)
	gt.NoError(t, err)
	gt.A(t, reminders).Length(1)
	gt.Equal(t, reminders[0].ID, int64(2)) // not reused after delete-all
}

func TestSetAlarm(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"set_alarm","entities":{"time":"2025-06-01 11:30:00","message":"tea break"}}`},
		alarmSound:   "/sounds/bell.wav",
	})

	f.handle(t, "set an alarm for 11:30")

	alarms, err := f.repo.ListAlarms(context.Background(), false)
	gt.NoError(t, err)
	gt.A(t, alarms).Length(1)
	gt.Equal(t, alarms[0].Message, "tea break")
	gt.Equal(t, alarms[0].SoundFile, "/sounds/bell.wav")
	gt.Equal(t, alarms[0].FireAt, time.Date(2025, 6, 1, 11, 30, 0, 0, time.Local))
}

func TestSetAlarmRejectsPast(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"set_alarm","entities":{"time":"2025-06-01 08:00:00"}}`},
	})

	f.handle(t, "set an alarm for 8am")

	alarms, err := f.repo.ListAlarms(context.Background(), false)
	gt.NoError(t, err)
	gt.A(t, alarms).Length(0)
	gt.S(t, f.voice.spokenJoined()).Contains("already passed")
}

func TestSummarizeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	gt.NoError(t, os.WriteFile(path, []byte("A very long document about gardening."), 0o644))

	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{fmt.Sprintf(`{"action":"summarize_file","entities":{"file_path":%q}}`, path)},
		answerText:   "It is about gardening.",
	})

	f.handle(t, "summarize my notes file")

	gt.S(t, f.voice.spokenJoined()).Contains("It is about gardening.")
}

func TestSummarizeFileMissing(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"summarize_file","entities":{"file_path":"/no/such/file.txt"}}`},
	})

	f.handle(t, "summarize that file")

	gt.S(t, f.voice.spokenJoined()).Contains("couldn't read the file")
}

func TestEmailDictatedBody(t *testing.T) {
	h := &stubHandler{
		intent:   model.ActionSendEmail,
		required: []string{"recipient", "subject", "body"},
		result:   "Email sent.",
	}
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"send_email","entities":{}}`},
		inputs: []string{
			"boss@example.com",
			"Quarterly report",
			"I'll dictate it",
			"Please find the quarterly numbers attached.",
		},
		handlers: []task.Handler{h},
	})

	f.handle(t, "send an email")

	gt.Equal(t, h.got["recipient"], "boss@example.com")
	gt.Equal(t, h.got["subject"], "Quarterly report")
	gt.Equal(t, h.got["body"], "Please find the quarterly numbers attached.")
	gt.S(t, f.voice.spokenJoined()).Contains("Email sent.")
}

func TestEmailGeneratedBody(t *testing.T) {
	h := &stubHandler{
		intent:   model.ActionSendEmail,
		required: []string{"recipient", "subject", "body"},
		result:   "Email sent.",
	}
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{`{"action":"send_email","entities":{"recipient":"hr@example.com","subject":"Leave request"}}`},
		inputs: []string{
			"you write it",
			"formal",
		},
		answerText: "I would like to request leave next week.",
		handlers:   []task.Handler{h},
	})

	f.handle(t, "send a leave request email")

	gt.Equal(t, h.got["recipient"], "hr@example.com")
	gt.S(t, h.got["body"]).Contains("request leave")
	gt.S(t, f.voice.spokenJoined()).Contains("formal or informal")
}

func TestLanguageToggle(t *testing.T) {
	f := newFixture(t, fixtureInput{
		jsonPayloads: []string{
			`{"action":"toggle_input_language","entities":{}}`,
			`{"action":"set_language","entities":{"language_code":"bn"}}`,
			`{"action":"set_all_language","entities":{"target_language":"bangla"}}`,
		},
	})

	f.handle(t, "switch input language")
	gt.S(t, f.voice.spokenJoined()).Contains("Bangla")

	f.handle(t, "speak bangla")
	gt.S(t, f.voice.spokenJoined()).Contains("I'll speak in Bangla")

	f.handle(t, "switch everything to bangla")
	gt.S(t, f.voice.spokenJoined()).Contains("Listening and speaking in Bangla")
}

func TestRunShutsDownGracefully(t *testing.T) {
	f := newFixture(t, fixtureInput{})

	// no queued input: the channel reports closed immediately and the
	// loop must exit cleanly, removing the session artifact
	gt.NoError(t, f.store.Append(model.RoleUser, "leftover"))
	gt.NoError(t, f.asst.Run(context.Background()))

	_, err := os.Stat(f.store.Path())
	gt.True(t, os.IsNotExist(err))
	gt.Equal(t, f.store.Len(), 0)
}
