package translate

import "strings"

// Phrasebook maps "from|to" to curated translations of common UI strings.
type Phrasebook map[string]map[string]string

// Lookup returns the curated translation of text. An exact match is tried first,
// then a case-insensitive match on the trimmed text.
func (p Phrasebook) Lookup(text, from, to string) (string, bool) {
	entries, ok := p[from+"|"+to]
	if !ok {
		return "", false
	}
	if v, ok := entries[text]; ok {
		return v, true
	}
	needle := strings.ToLower(strings.TrimSpace(text))
	for k, v := range entries {
		if strings.ToLower(k) == needle {
			return v, true
		}
	}
	return "", false
}

// DefaultPhrasebook covers the strings shown on the prototype settings screen.
var DefaultPhrasebook = Phrasebook{
	"en|de": {
		"Hello":     "Hallo",
		"Thank you": "Danke",
		"Settings":  "Einstellungen",
		"Language":  "Sprache",
		"Save":      "Speichern",
		"Cancel":    "Abbrechen",
		"Download":  "Herunterladen",
		"Yes":       "Ja",
		"No":        "Nein",
	},
	"en|fr": {
		"Hello":     "Bonjour",
		"Thank you": "Merci",
		"Settings":  "Paramètres",
		"Language":  "Langue",
		"Save":      "Enregistrer",
		"Cancel":    "Annuler",
		"Download":  "Télécharger",
		"Yes":       "Oui",
		"No":        "Non",
	},
	"en|it": {
		"Hello":     "Ciao",
		"Thank you": "Grazie",
		"Settings":  "Impostazioni",
		"Language":  "Lingua",
		"Save":      "Salva",
		"Cancel":    "Annulla",
		"Download":  "Scarica",
		"Yes":       "Sì",
		"No":        "No",
	},
	"en|rm": {
		"Hello":     "Allegra",
		"Thank you": "Grazia fitg",
		"Language":  "Lingua",
		"Yes":       "Gea",
		"No":        "Na",
	},
	"en|es": {
		"Hello":     "Hola",
		"Thank you": "Gracias",
		"Settings":  "Ajustes",
		"Language":  "Idioma",
		"Save":      "Guardar",
		"Cancel":    "Cancelar",
		"Download":  "Descargar",
		"Yes":       "Sí",
		"No":        "No",
	},
	"en|pt": {
		"Hello":     "Olá",
		"Thank you": "Obrigado",
		"Settings":  "Configurações",
		"Language":  "Idioma",
		"Save":      "Salvar",
		"Cancel":    "Cancelar",
		"Download":  "Baixar",
		"Yes":       "Sim",
		"No":        "Não",
	},
	"en|ja": {
		"Hello":     "こんにちは",
		"Thank you": "ありがとう",
		"Settings":  "設定",
		"Language":  "言語",
		"Save":      "保存",
		"Cancel":    "キャンセル",
		"Download":  "ダウンロード",
		"Yes":       "はい",
		"No":        "いいえ",
	},
}
