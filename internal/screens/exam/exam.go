package exam

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"levelcat/internal/api"
	ex "levelcat/internal/exam"
	"levelcat/internal/router"
	"levelcat/internal/screen"
	"levelcat/internal/screens/report"
	"levelcat/internal/store"
	"levelcat/internal/ui/components"
	"levelcat/internal/ui/layout"
)

// Params carries the participant details collected on the setup screen.
type Params struct {
	StartLevel string
	FirstName  string
	LastName   string
}

// ExamScreen drives a test session. All session rules live in the
// controller; the screen translates key presses into Begin* calls, issues
// the HTTP requests as commands, and feeds settled results back through
// Handle* methods.
type ExamScreen struct {
	client  *api.Client
	results store.ResultRepo
	ctrl    *ex.Controller
	params  Params

	options     components.OptionList
	confirmQuit bool
	status      string
	statusErr   bool
	elapsed     time.Duration
}

var _ screen.Screen = (*ExamScreen)(nil)
var _ screen.KeyHintProvider = (*ExamScreen)(nil)
var _ screen.ClockProvider = (*ExamScreen)(nil)

// New creates an ExamScreen with injected dependencies.
func New(client *api.Client, results store.ResultRepo, params Params) *ExamScreen {
	return &ExamScreen{
		client:  client,
		results: results,
		ctrl:    ex.NewController(),
		params:  params,
	}
}

func (s *ExamScreen) Init() tea.Cmd {
	gen, err := s.ctrl.BeginStart()
	if err != nil {
		return nil
	}
	return tea.Batch(s.startCmd(gen), tickCmd())
}

func (s *ExamScreen) Title() string {
	return "Test"
}

func (s *ExamScreen) Clock() string {
	if !s.ctrl.Timer().Running() {
		return ""
	}
	mins := int(s.elapsed.Minutes())
	secs := int(s.elapsed.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", mins, secs)
}

func (s *ExamScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "End test"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch s.ctrl.Phase() {
	case ex.PhaseIdle:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	case ex.PhaseSectionPause:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Begin section"},
			{Key: "Esc", Description: "Quit test"},
		}
	case ex.PhasePresentingItem:
		hints := []layout.KeyHint{
			{Key: "↑↓", Description: "Move"},
			{Key: "Space", Description: "Select"},
			{Key: "Enter", Description: "Submit"},
		}
		if item := s.ctrl.Item(); item != nil && item.HasAudio() {
			hints = append(hints, layout.KeyHint{Key: "P", Description: "Play audio"})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Quit test"})
	case ex.PhaseFinishing:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
		}
	}
	return nil
}

func (s *ExamScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		return s.handleStarted(msg)

	case nextItemMsg:
		return s.handleNextItem(msg)

	case resumedMsg:
		return s.handleResumed(msg)

	case answeredMsg:
		return s.handleAnswered(msg)

	case playedMsg:
		return s.handlePlayed(msg)

	case finishedMsg:
		return s.handleFinished(msg)

	case timerTickMsg:
		return s.handleTimerTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ExamScreen) handleStarted(msg startedMsg) (screen.Screen, tea.Cmd) {
	action, err := s.ctrl.HandleStartResult(msg.Gen, msg.Res, msg.Err)
	if err != nil {
		s.setError(api.Message(err))
		return s, nil
	}
	return s, s.dispatch(action)
}

func (s *ExamScreen) handleNextItem(msg nextItemMsg) (screen.Screen, tea.Cmd) {
	action, _ := s.ctrl.HandleFetchResult(msg.Gen, msg.Item, msg.Pause, msg.Err)
	if msg.Gen != s.ctrl.Generation() {
		return s, nil
	}
	// A freshly applied item or pause wipes the previous answer feedback.
	if msg.Err == nil {
		s.clearStatus()
	}
	if item := s.ctrl.Item(); item != nil {
		s.options = components.NewOptionList(item.Options, item.Model == ex.PartialCreditScoring)
	}
	return s, s.dispatch(action)
}

func (s *ExamScreen) handleResumed(msg resumedMsg) (screen.Screen, tea.Cmd) {
	action, err := s.ctrl.HandleResumeResult(msg.Gen, msg.Err)
	if err != nil {
		s.setError(api.Message(err))
		return s, nil
	}
	return s, s.dispatch(action)
}

func (s *ExamScreen) handleAnswered(msg answeredMsg) (screen.Screen, tea.Cmd) {
	action, err := s.ctrl.HandleSubmitResult(msg.Gen, msg.Res, msg.Err)
	if err != nil {
		s.setError(api.Message(err))
		return s, nil
	}
	if fb := s.ctrl.LastAnswer(); fb != nil {
		if fb.Correct {
			s.setStatus("Correct")
		} else {
			s.setStatus("Incorrect")
		}
	}
	return s, s.dispatch(action)
}

func (s *ExamScreen) handlePlayed(msg playedMsg) (screen.Screen, tea.Cmd) {
	if err := s.ctrl.HandlePlayResult(msg.Gen, msg.ItemID, msg.Res, msg.Err); err != nil {
		s.setError(api.Message(err))
	}
	return s, nil
}

func (s *ExamScreen) handleFinished(msg finishedMsg) (screen.Screen, tea.Cmd) {
	applied, err := s.ctrl.HandleFinishResult(msg.Gen, msg.Res, msg.Err)
	if err != nil {
		s.setError(api.Message(err) + " — press R to retry")
		return s, nil
	}
	// A settlement from before a reset is dropped by the controller;
	// there is no session left to record.
	if !applied {
		return s, nil
	}

	sess := s.ctrl.Session()
	rec := &store.ResultRecord{
		TestID:       sess.ID,
		FirstName:    s.params.FirstName,
		LastName:     s.params.LastName,
		StartLevel:   s.params.StartLevel,
		Theta:        msg.Res.Theta,
		SE:           msg.Res.SE,
		TScore:       msg.Res.TScore,
		CEFR:         msg.Res.CEFR,
		DurationSecs: int(s.elapsed.Seconds()),
	}

	client := s.client
	results := s.results
	testID := sess.ID
	return s, func() tea.Msg {
		if results != nil {
			_ = results.Save(context.Background(), rec)
		}
		return router.ReplaceScreenMsg{Screen: report.New(client, testID)}
	}
}

func (s *ExamScreen) handleTimerTick() (screen.Screen, tea.Cmd) {
	if !s.ctrl.Timer().Running() {
		return s, nil
	}
	s.elapsed = s.ctrl.Timer().Elapsed(time.Now())
	return s, tickCmd()
}

func (s *ExamScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// Quit confirmation dialog.
	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			s.ctrl.Reset()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch s.ctrl.Phase() {
	case ex.PhaseIdle:
		// Start failed. Enter retries, esc goes back.
		switch key {
		case "enter":
			gen, err := s.ctrl.BeginStart()
			if err != nil {
				return s, nil
			}
			s.clearStatus()
			return s, tea.Batch(s.startCmd(gen), tickCmd())
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}

	case ex.PhaseSectionPause:
		switch key {
		case "enter":
			gen, err := s.ctrl.BeginResume()
			if err != nil {
				return s, nil
			}
			s.clearStatus()
			return s, s.resumeCmd(gen)
		case "esc":
			s.confirmQuit = true
		}

	case ex.PhasePresentingItem:
		return s.handleItemKey(key, msg)

	case ex.PhaseFinishing:
		switch key {
		case "r", "R", "enter":
			gen, ok := s.ctrl.BeginFinish()
			if !ok {
				return s, nil
			}
			s.clearStatus()
			return s, s.finishCmd(gen)
		}

	default:
		if key == "esc" {
			s.confirmQuit = true
		}
	}

	return s, nil
}

func (s *ExamScreen) handleItemKey(key string, msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	item := s.ctrl.Item()
	if item == nil {
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil

	case "space", " ":
		_ = s.ctrl.ToggleOption(s.options.Cursor)
		return s, nil

	case "enter":
		gen, payload, err := s.ctrl.BeginSubmit()
		if err != nil {
			if err == ex.ErrNothingToAsk {
				s.setError("Select an answer first")
			}
			return s, nil
		}
		s.clearStatus()
		return s, s.answerCmd(gen, payload)

	case "p", "P":
		if !item.HasAudio() {
			return s, nil
		}
		gen, ok := s.ctrl.PlayAttempt()
		if !ok {
			if g := s.ctrl.Guard(); g != nil {
				switch {
				case g.Blocked():
					s.setError("Audio playback unavailable for this item")
				case g.Exhausted():
					s.setError("No plays remaining")
				}
			}
			return s, nil
		}
		return s, s.playCmd(gen, item.ID)

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i := int(key[0] - '1')
		if i < len(item.Options) {
			_ = s.ctrl.ToggleOption(i)
			s.options.Cursor = i
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.options, cmd = s.options.Update(msg)
	return s, cmd
}

// dispatch issues the follow-up request a controller transition asked for.
func (s *ExamScreen) dispatch(action ex.Action) tea.Cmd {
	switch action {
	case ex.ActionFetchNext:
		gen, err := s.ctrl.BeginFetch()
		if err != nil {
			return nil
		}
		return s.fetchCmd(gen)
	case ex.ActionFinish:
		gen, ok := s.ctrl.BeginFinish()
		if !ok {
			return nil
		}
		return s.finishCmd(gen)
	}
	return nil
}

func (s *ExamScreen) startCmd(gen int) tea.Cmd {
	req := api.StartRequest{
		StartLevel: s.params.StartLevel,
		FirstName:  s.params.FirstName,
		LastName:   s.params.LastName,
	}
	client := s.client
	return func() tea.Msg {
		res, err := client.StartTest(context.Background(), req)
		return startedMsg{Gen: gen, Res: res, Err: err}
	}
}

func (s *ExamScreen) fetchCmd(gen int) tea.Cmd {
	client := s.client
	testID := s.ctrl.Session().ID
	return func() tea.Msg {
		item, pause, err := client.NextItem(context.Background(), testID)
		return nextItemMsg{Gen: gen, Item: item, Pause: pause, Err: err}
	}
}

func (s *ExamScreen) resumeCmd(gen int) tea.Cmd {
	client := s.client
	testID := s.ctrl.Session().ID
	return func() tea.Msg {
		_, err := client.ResumeSection(context.Background(), testID)
		return resumedMsg{Gen: gen, Err: err}
	}
}

func (s *ExamScreen) answerCmd(gen int, payload api.AnswerPayload) tea.Cmd {
	client := s.client
	testID := s.ctrl.Session().ID
	return func() tea.Msg {
		res, err := client.SubmitAnswer(context.Background(), testID, payload)
		return answeredMsg{Gen: gen, Res: res, Err: err}
	}
}

func (s *ExamScreen) playCmd(gen int, itemID string) tea.Cmd {
	client := s.client
	testID := s.ctrl.Session().ID
	return func() tea.Msg {
		res, err := client.RecordPlay(context.Background(), testID, itemID)
		return playedMsg{Gen: gen, ItemID: itemID, Res: res, Err: err}
	}
}

func (s *ExamScreen) finishCmd(gen int) tea.Cmd {
	client := s.client
	testID := s.ctrl.Session().ID
	return func() tea.Msg {
		res, err := client.FinishTest(context.Background(), testID)
		return finishedMsg{Gen: gen, Res: res, Err: err}
	}
}

func (s *ExamScreen) setStatus(msg string) {
	s.status = msg
	s.statusErr = false
}

func (s *ExamScreen) setError(msg string) {
	s.status = msg
	s.statusErr = true
}

func (s *ExamScreen) clearStatus() {
	s.status = ""
	s.statusErr = false
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
