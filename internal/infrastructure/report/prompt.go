package report

import (
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/shotmap-report/internal/domain/shot"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasttemplate"
)

const (
	LanguageEnglish = "en"
	LanguageItalian = "it"
)

const promptTemplateEN = `You are a match analysis expert. Analyse the following shot map of the match.
Final score: {{scoreline}}
Teams: {{home}} (red) and {{away}} (blue).
Each shot is described by:
- the team that took it
- its coordinates (x, y) on a {{length}}x{{width}} pitch
- outcome: Goal or No Goal
- whether the shot was on target or off target

Shot data:
{{shots}}

Give a detailed analysis of the shots, the attacking patterns of both teams, and tactical observations.
`

const promptTemplateIT = `Sei un esperto in match analysis. Analizza la seguente shot map della partita.
Risultato finale: {{scoreline}}
Squadre: {{home}} (rosso) e {{away}} (blu).
Ogni tiro è indicato con:
- squadra che ha tirato
- coordinate (x, y) su un campo {{length}}x{{width}}
- outcome: Goal o No Goal
- se il tiro è stato in porta (on target) o fuori (off target)

Dati tiri:
{{shots}}

Fornisci un'analisi dettagliata dei tiri, pattern di attacco di entrambe le squadre, e osservazioni tattiche.
`

var promptTemplates = map[string]*fasttemplate.Template{
	LanguageEnglish: fasttemplate.New(promptTemplateEN, "{{", "}}"),
	LanguageItalian: fasttemplate.New(promptTemplateIT, "{{", "}}"),
}

// SupportedLanguage reports whether a prompt template exists for lang.
func SupportedLanguage(lang string) bool {
	_, ok := promptTemplates[normalizeLanguage(lang)]
	return ok
}

type promptShot struct {
	Team     string  `json:"team"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Outcome  *string `json:"outcome"`
	OnTarget bool    `json:"on_target"`
}

// PromptBuilder renders the commentary instruction for one extraction.
type PromptBuilder struct {
	language string
}

func NewPromptBuilder(language string) (*PromptBuilder, error) {
	lang := normalizeLanguage(language)
	if _, ok := promptTemplates[lang]; !ok {
		return nil, crerr.Newf("unsupported prompt language %q", language)
	}
	return &PromptBuilder{language: lang}, nil
}

func (b *PromptBuilder) Build(ex shot.Extraction) (string, error) {
	shots := make([]promptShot, 0, len(ex.Shots))
	for _, entry := range ex.Shots {
		item := promptShot{
			Team:     entry.Team,
			X:        entry.X,
			Y:        entry.Y,
			OnTarget: entry.OnTarget,
		}
		if entry.HasOutcome {
			outcome := entry.Outcome
			item.Outcome = &outcome
		}
		shots = append(shots, item)
	}

	shotsJSON, err := sonic.ConfigStd.MarshalIndent(shots, "", "  ")
	if err != nil {
		return "", crerr.Wrap(err, "marshal shot data")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	tpl := promptTemplates[b.language]
	if tpl == nil {
		tpl = promptTemplates[LanguageEnglish]
	}
	if _, err := tpl.Execute(buf, map[string]any{
		"scoreline": ex.Scoreline(),
		"home":      ex.Teams.Home(),
		"away":      ex.Teams.Away(),
		"length":    strconv.FormatFloat(shot.PitchLength, 'f', -1, 64),
		"width":     strconv.FormatFloat(shot.PitchWidth, 'f', -1, 64),
		"shots":     string(shotsJSON),
	}); err != nil {
		return "", crerr.Wrap(err, "execute prompt template")
	}

	return buf.String(), nil
}

func normalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return LanguageEnglish
	}
	return lang
}
