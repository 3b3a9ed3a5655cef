package model

// Persona selects the expert role the model answers as.
type Persona string

const (
	WebDevExpert       Persona = "web-dev-expert"
	HRRecruitingExpert Persona = "hr-recruiting-expert"
)

// DefaultPersona is pre-selected on the form.
const DefaultPersona = WebDevExpert

type personaCopy struct {
	label      string
	system     string
	validation string
}

// Domain copy, kept verbatim.
var personas = map[Persona]personaCopy{
	WebDevExpert: {
		label:      "WEB開発の専門家",
		system:     "あなたはWEB開発の専門家です。WEB開発に関する質問に詳細かつ正確に回答してください。HTML、CSS、JavaScript、バックエンド技術など幅広い知識を持っています。",
		validation: "WEB開発について質問したい内容を入力してから「質問する」ボタンを押してください。",
	},
	HRRecruitingExpert: {
		label:      "人事・採用の専門家",
		system:     "あなたは人事・採用の専門家です。採用プロセス、人材評価、組織開発、労務管理などについて詳しく、実務的なアドバイスを提供します。",
		validation: "人事・採用について質問したい内容を入力してから「質問する」ボタンを押してください。",
	},
}

// Personas returns every persona in display order.
func Personas() []Persona {
	return []Persona{WebDevExpert, HRRecruitingExpert}
}

// ParsePersona accepts only the two known identifiers.
func ParsePersona(v string) (Persona, bool) {
	p := Persona(v)
	if _, ok := personas[p]; !ok {
		return "", false
	}
	return p, true
}

func (p Persona) String() string {
	return string(p)
}

// Valid reports whether p is one of the known personas.
func (p Persona) Valid() bool {
	_, ok := personas[p]
	return ok
}

// Label is the radio button text.
func (p Persona) Label() string {
	return personas[p].label
}

// SystemPrompt is the fixed system instruction sent with every question.
func (p Persona) SystemPrompt() string {
	return personas[p].system
}

// ValidationMessage is shown when the question is empty at submit time.
// It doubles as the instruction copy under each persona heading.
func (p Persona) ValidationMessage() string {
	return personas[p].validation
}
