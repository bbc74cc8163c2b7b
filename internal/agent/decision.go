package agent

import "fmt"

// Decision - закрытый набор вариантов действия. Каждый вариант несет
// ровно те поля, которые нужны его исполнению. Reason - строка для
// логов и текста ответа, на управление потоком не влияет.
type Decision interface {
	Reason() string
	String() string
}

type Click struct {
	Target string // селектор из снапшота
	Label  string // видимый текст элемента, для текстовых запасных стратегий
	Why    string
}

func (c Click) Reason() string { return c.Why }
func (c Click) String() string { return "click " + c.Target }

type Fill struct {
	Target string
	Value  string
	Hint   string // имя/placeholder поля, для запасных стратегий
	Why    string
}

func (f Fill) Reason() string { return f.Why }
func (f Fill) String() string { return fmt.Sprintf("fill %s = %q", f.Target, f.Value) }

type Scroll struct{ Why string }

func (s Scroll) Reason() string { return s.Why }
func (s Scroll) String() string { return "scroll" }

type Wait struct{ Why string }

func (w Wait) Reason() string { return w.Why }
func (w Wait) String() string { return "wait" }

type None struct{ Why string }

func (n None) Reason() string { return n.Why }
func (n None) String() string { return "none" }

// FieldFill - одно поле букинг-формы.
type FieldFill struct {
	Target string
	Value  string
	Hint   string
	Select bool // контрол - выпадающий список, заполняется выбором опции
}

// BookFlow - структурированное намерение бронирования: независимые
// заполнения дат и числа гостей плюс условный клик по кнопке поиска.
// Каждое заполнение пытается выполниться само по себе; клик по поиску
// делается, если хоть одно поле заполнилось или намерение бронирования
// выражено в самом сообщении.
type BookFlow struct {
	Fills       []FieldFill
	Submit      string
	SubmitLabel string
	ForceSubmit bool
	Why         string
}

func (b BookFlow) Reason() string { return b.Why }
func (b BookFlow) String() string { return fmt.Sprintf("book (%d fills)", len(b.Fills)) }
