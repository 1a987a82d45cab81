package speech

// fallbackLanguage is used when a language has no dedicated voice.
const fallbackLanguage = "en"

// voiceByLanguage maps a language code to an ElevenLabs voice ID.
// African languages share a multilingual voice; Caribbean creoles and
// Caribbean Spanish variants each share a regional voice.
var voiceByLanguage = map[string]string{
	"sw": "TxGEqnHWrfWFTfGW9XjX",
	"yo": "TxGEqnHWrfWFTfGW9XjX",
	"ig": "TxGEqnHWrfWFTfGW9XjX",
	"ha": "TxGEqnHWrfWFTfGW9XjX",
	"am": "TxGEqnHWrfWFTfGW9XjX",
	"so": "TxGEqnHWrfWFTfGW9XjX",
	"zu": "TxGEqnHWrfWFTfGW9XjX",
	"sn": "TxGEqnHWrfWFTfGW9XjX",
	"wo": "TxGEqnHWrfWFTfGW9XjX",
	"tw": "TxGEqnHWrfWFTfGW9XjX",

	"jam": "21m00Tcm4TlvDq8ikWAM",
	"ht":  "EXAVITQu4vr4xnSDxMaL",
	"lc":  "EXAVITQu4vr4xnSDxMaL",
	"dm":  "EXAVITQu4vr4xnSDxMaL",
	"frc": "EXAVITQu4vr4xnSDxMaL",

	"es-cu": "ErXwobaYiN019PkySvjV",
	"es-pr": "ErXwobaYiN019PkySvjV",
	"es-do": "ErXwobaYiN019PkySvjV",

	"en": "21m00Tcm4TlvDq8ikWAM",
}

// VoiceForLanguage returns the voice ID for a language code.
// Unknown languages fall back to the English voice.
func VoiceForLanguage(language string) string {
	if id, ok := voiceByLanguage[language]; ok {
		return id
	}
	return voiceByLanguage[fallbackLanguage]
}
