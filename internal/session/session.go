// Package session — состояние диалога с каждым администратором.
// session.go описывает запись сессии и её инварианты.
package session

import (
	"errors"
	"fmt"

	"serotonyl.ru/remna-admin-bot/internal/event"
)

// State — экран, на котором сейчас находится диалог.
type State int

const (
	MainMenu        State = iota // главное меню
	EntityMenu                   // меню раздела (Kind)
	Browsing                     // постраничный список
	Detail                       // карточка сущности (Subject)
	CollectingField              // ждём текст для поля потока
	ChoiceField                  // ждём нажатие варианта для поля потока
	ConfirmPending               // ждём подтверждение опасного действия
	Done                         // результат потока показан, дальше — меню раздела
)

var stateNames = [...]string{
	MainMenu:        "main_menu",
	EntityMenu:      "entity_menu",
	Browsing:        "browsing",
	Detail:          "detail",
	CollectingField: "collecting_field",
	ChoiceField:     "choice_field",
	ConfirmPending:  "confirm_pending",
	Done:            "done",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Valid — одно из определённых состояний.
func (s State) Valid() bool { return s >= MainMenu && s <= Done }

// Kind — раздел меню, которому принадлежит экран.
type Kind string

const (
	KindNone     Kind = ""
	KindUsers    Kind = "users"
	KindNodes    Kind = "nodes"
	KindHosts    Kind = "hosts"
	KindInbounds Kind = "inbounds"
	KindBulk     Kind = "bulk"
	KindStats    Kind = "stats"
)

// Kinds — разделы в порядке главного меню.
var Kinds = []Kind{KindUsers, KindNodes, KindHosts, KindInbounds, KindBulk, KindStats}

// ParseKind проверяет имя раздела из callback-данных.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return KindNone, false
}

// Flow — тег потока, владеющего Scratch.
type Flow string

const (
	FlowNone       Flow = ""
	FlowCreateUser Flow = "create-user"
	FlowEditUser   Flow = "edit-user"
	FlowCreateHost Flow = "create-host"
	FlowBulkUpdate Flow = "bulk-update"
	FlowSearchUser Flow = "search-user"
	FlowAddHwid    Flow = "add-hwid"
)

// Session — контекст диалога одного администратора. Живёт до перезапуска процесса.
type Session struct {
	ID      int64
	State   State
	Menu    Kind
	Subject string // uuid сущности на экране Detail, в потоке редактирования и в подтверждении
	// SubjectName и SubjectEnabled запоминаются при показе карточки, чтобы
	// подтверждение и отмена обходились без повторного запроса.
	SubjectName    string
	SubjectEnabled bool

	PendingFlow Flow
	FlowArg     string // поле редактирования или режим поиска
	Seed        string // текущее значение поля для подсказки при редактировании
	FieldIndex  int
	Scratch     Scratch

	// PendingAction задан только в ConfirmPending.
	PendingAction *event.Selection

	// Cursor и Total имеют смысл только в Browsing.
	Cursor int
	Total  int
}

// New создаёт сессию в главном меню.
func New(id int64) *Session {
	return &Session{ID: id, State: MainMenu}
}

// StartFlow открывает поток: прежний Scratch и ожидающее действие отбрасываются.
func (s *Session) StartFlow(f Flow, arg string) {
	s.PendingFlow = f
	s.FlowArg = arg
	s.Seed = ""
	s.FieldIndex = 0
	s.Scratch.Reset()
	s.PendingAction = nil
}

// ClearFlow сбрасывает всё, что принадлежит потоку и подтверждению.
func (s *Session) ClearFlow() {
	s.PendingFlow = FlowNone
	s.FlowArg = ""
	s.Seed = ""
	s.FieldIndex = 0
	s.Scratch.Reset()
	s.PendingAction = nil
}

// Focus запоминает сущность, карточка которой сейчас на экране.
func (s *Session) Focus(id, name string, enabled bool) {
	s.Subject = id
	s.SubjectName = name
	s.SubjectEnabled = enabled
}

// InFlow — идёт сбор полей.
func (s *Session) InFlow() bool { return s.PendingFlow != FlowNone }

// Await переводит сессию в ConfirmPending для действия a.
func (s *Session) Await(a event.Selection) {
	s.ClearFlow()
	s.PendingAction = &a
	s.State = ConfirmPending
}

// Go переключает экран. Уход с Browsing обнуляет пагинацию,
// уход с ConfirmPending — ожидающее действие.
func (s *Session) Go(state State, menu Kind) {
	if state != Browsing {
		s.Cursor, s.Total = 0, 0
	}
	if state != ConfirmPending {
		s.PendingAction = nil
	}
	s.State = state
	s.Menu = menu
}

// Check проверяет инварианты записи.
func (s *Session) Check() error {
	var errs []error
	if !s.State.Valid() {
		errs = append(errs, fmt.Errorf("недопустимое состояние %d", int(s.State)))
	}
	if s.Scratch.Len() > 0 && s.PendingFlow == FlowNone {
		errs = append(errs, errors.New("scratch без владеющего потока"))
	}
	if s.PendingAction != nil && s.State != ConfirmPending {
		errs = append(errs, fmt.Errorf("ожидающее действие в состоянии %s", s.State))
	}
	if s.State == ConfirmPending && s.PendingAction == nil {
		errs = append(errs, errors.New("подтверждение без действия"))
	}
	if (s.State == CollectingField || s.State == ChoiceField) && s.PendingFlow == FlowNone {
		errs = append(errs, fmt.Errorf("состояние %s без потока", s.State))
	}
	if s.Cursor < 0 {
		errs = append(errs, fmt.Errorf("отрицательный курсор %d", s.Cursor))
	}
	return errors.Join(errs...)
}
