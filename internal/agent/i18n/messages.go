// Package i18n holds the user-facing messages the core surfaces. The full UI
// string table lives with the screens; only strings the core decides on are here.
package i18n

import (
	"github.com/leafdoc-core/server/internal/agent/model"
	errx "github.com/leafdoc-core/server/internal/core/error"
)

type Key string

const (
	MsgConfiguration  Key = "error.configuration"
	MsgAnalysis       Key = "error.analysis"
	MsgInvalidFormat  Key = "error.invalid_format"
	MsgCropMismatch   Key = "error.crop_mismatch"
	MsgTTS            Key = "error.tts"
	MsgShare          Key = "error.share"
	MsgStorage        Key = "error.storage"
	MsgMissingCrop    Key = "home.missing_crop"
	MsgMissingImage   Key = "home.missing_image"
	MsgChatApology    Key = "chat.apology"
	MsgChatFailed     Key = "chat.failed"
	MsgHistoryMissing Key = "history.missing"
)

var table = map[model.Language]map[Key]string{
	model.English: {
		MsgConfiguration:  "The app is not set up yet: the diagnosis service key is missing. Please contact support.",
		MsgAnalysis:       "We could not analyze this photo. Check your connection and try again.",
		MsgInvalidFormat:  "We received an unclear answer for this photo. Please try again with a sharper picture.",
		MsgCropMismatch:   "This photo does not look like the crop you selected.",
		MsgTTS:            "Voice playback is not available right now.",
		MsgShare:          "Sharing failed. Please try again.",
		MsgStorage:        "This scan could not be saved to your history.",
		MsgMissingCrop:    "Please select a crop first.",
		MsgMissingImage:   "Please take or upload a photo of the leaf.",
		MsgChatApology:    "Sorry, I could not answer that right now. Please try again.",
		MsgChatFailed:     "The agronomist chat is not available right now.",
		MsgHistoryMissing: "That scan is no longer in your history.",
	},
	model.Hindi: {
		MsgConfiguration:  "ऐप अभी तैयार नहीं है: जांच सेवा की कुंजी नहीं मिली। कृपया सहायता से संपर्क करें।",
		MsgAnalysis:       "हम इस फोटो की जांच नहीं कर सके। इंटरनेट जांचें और फिर से कोशिश करें।",
		MsgInvalidFormat:  "इस फोटो का उत्तर स्पष्ट नहीं मिला। कृपया साफ़ फोटो के साथ फिर से कोशिश करें।",
		MsgCropMismatch:   "यह फोटो आपकी चुनी हुई फसल जैसी नहीं लगती।",
		MsgTTS:            "आवाज़ अभी उपलब्ध नहीं है।",
		MsgShare:          "साझा नहीं हो सका। कृपया फिर से कोशिश करें।",
		MsgStorage:        "यह जांच आपके इतिहास में सेव नहीं हो सकी।",
		MsgMissingCrop:    "कृपया पहले फसल चुनें।",
		MsgMissingImage:   "कृपया पत्ती की फोटो लें या अपलोड करें।",
		MsgChatApology:    "माफ़ कीजिए, मैं अभी इसका उत्तर नहीं दे सका। कृपया फिर से पूछें।",
		MsgChatFailed:     "कृषि विशेषज्ञ से चैट अभी उपलब्ध नहीं है।",
		MsgHistoryMissing: "यह जांच अब आपके इतिहास में नहीं है।",
	},
	model.Bengali: {
		MsgConfiguration:  "অ্যাপটি এখনও প্রস্তুত নয়: পরীক্ষা পরিষেবার কী পাওয়া যায়নি। অনুগ্রহ করে সহায়তায় যোগাযোগ করুন।",
		MsgAnalysis:       "এই ছবিটি পরীক্ষা করা যায়নি। ইন্টারনেট সংযোগ দেখে আবার চেষ্টা করুন।",
		MsgInvalidFormat:  "এই ছবির জন্য স্পষ্ট উত্তর পাওয়া যায়নি। আরও পরিষ্কার ছবি দিয়ে আবার চেষ্টা করুন।",
		MsgCropMismatch:   "এই ছবিটি আপনার বেছে নেওয়া ফসলের মতো দেখাচ্ছে না।",
		MsgTTS:            "এখন কণ্ঠস্বর শোনানো সম্ভব নয়।",
		MsgShare:          "শেয়ার করা যায়নি। আবার চেষ্টা করুন।",
		MsgStorage:        "এই পরীক্ষাটি আপনার ইতিহাসে সংরক্ষণ করা যায়নি।",
		MsgMissingCrop:    "অনুগ্রহ করে প্রথমে একটি ফসল বেছে নিন।",
		MsgMissingImage:   "অনুগ্রহ করে পাতার একটি ছবি তুলুন বা আপলোড করুন।",
		MsgChatApology:    "দুঃখিত, এখন এর উত্তর দিতে পারছি না। আবার চেষ্টা করুন।",
		MsgChatFailed:     "কৃষি বিশেষজ্ঞের সাথে চ্যাট এখন উপলব্ধ নয়।",
		MsgHistoryMissing: "এই পরীক্ষাটি আর আপনার ইতিহাসে নেই।",
	},
	model.Telugu: {
		MsgConfiguration:  "యాప్ ఇంకా సిద్ధంగా లేదు: పరీక్ష సేవ కీ లేదు. దయచేసి సహాయాన్ని సంప్రదించండి.",
		MsgAnalysis:       "ఈ ఫోటోను పరీక్షించలేకపోయాము. ఇంటర్నెట్ చూసి మళ్ళీ ప్రయత్నించండి.",
		MsgInvalidFormat:  "ఈ ఫోటోకు స్పష్టమైన సమాధానం రాలేదు. స్పష్టమైన ఫోటోతో మళ్ళీ ప్రయత్నించండి.",
		MsgCropMismatch:   "ఈ ఫోటో మీరు ఎంచుకున్న పంటలా కనిపించడం లేదు.",
		MsgTTS:            "ప్రస్తుతం వాయిస్ అందుబాటులో లేదు.",
		MsgShare:          "షేర్ చేయలేకపోయాము. మళ్ళీ ప్రయత్నించండి.",
		MsgStorage:        "ఈ పరీక్షను మీ చరిత్రలో సేవ్ చేయలేకపోయాము.",
		MsgMissingCrop:    "దయచేసి ముందుగా ఒక పంటను ఎంచుకోండి.",
		MsgMissingImage:   "దయచేసి ఆకు ఫోటో తీయండి లేదా అప్‌లోడ్ చేయండి.",
		MsgChatApology:    "క్షమించండి, ఇప్పుడు దీనికి సమాధానం ఇవ్వలేకపోతున్నాను. మళ్ళీ ప్రయత్నించండి.",
		MsgChatFailed:     "వ్యవసాయ నిపుణుడితో చాట్ ప్రస్తుతం అందుబాటులో లేదు.",
		MsgHistoryMissing: "ఈ పరీక్ష ఇప్పుడు మీ చరిత్రలో లేదు.",
	},
	model.Marathi: {
		MsgConfiguration:  "ॲप अजून तयार नाही: तपासणी सेवेची की मिळाली नाही. कृपया मदत केंद्राशी संपर्क साधा.",
		MsgAnalysis:       "आम्ही हा फोटो तपासू शकलो नाही. इंटरनेट तपासा आणि पुन्हा प्रयत्न करा.",
		MsgInvalidFormat:  "या फोटोसाठी स्पष्ट उत्तर मिळाले नाही. कृपया स्पष्ट फोटोसह पुन्हा प्रयत्न करा.",
		MsgCropMismatch:   "हा फोटो तुम्ही निवडलेल्या पिकासारखा दिसत नाही.",
		MsgTTS:            "आवाज सध्या उपलब्ध नाही.",
		MsgShare:          "शेअर करता आले नाही. कृपया पुन्हा प्रयत्न करा.",
		MsgStorage:        "ही तपासणी तुमच्या इतिहासात जतन करता आली नाही.",
		MsgMissingCrop:    "कृपया आधी पीक निवडा.",
		MsgMissingImage:   "कृपया पानाचा फोटो घ्या किंवा अपलोड करा.",
		MsgChatApology:    "माफ करा, मी आत्ता याचे उत्तर देऊ शकलो नाही. कृपया पुन्हा विचारा.",
		MsgChatFailed:     "कृषी तज्ञांशी चॅट सध्या उपलब्ध नाही.",
		MsgHistoryMissing: "ही तपासणी आता तुमच्या इतिहासात नाही.",
	},
	model.Tamil: {
		MsgConfiguration:  "செயலி இன்னும் தயாராகவில்லை: பரிசோதனை சேவையின் சாவி இல்லை. உதவியைத் தொடர்பு கொள்ளவும்.",
		MsgAnalysis:       "இந்தப் புகைப்படத்தைப் பரிசோதிக்க முடியவில்லை. இணைய இணைப்பைச் சரிபார்த்து மீண்டும் முயலவும்.",
		MsgInvalidFormat:  "இந்தப் புகைப்படத்திற்குத் தெளிவான பதில் கிடைக்கவில்லை. தெளிவான புகைப்படத்துடன் மீண்டும் முயலவும்.",
		MsgCropMismatch:   "இந்தப் புகைப்படம் நீங்கள் தேர்ந்தெடுத்த பயிர் போலத் தெரியவில்லை.",
		MsgTTS:            "குரல் இப்போது கிடைக்கவில்லை.",
		MsgShare:          "பகிர முடியவில்லை. மீண்டும் முயலவும்.",
		MsgStorage:        "இந்தப் பரிசோதனையை உங்கள் வரலாற்றில் சேமிக்க முடியவில்லை.",
		MsgMissingCrop:    "முதலில் ஒரு பயிரைத் தேர்ந்தெடுக்கவும்.",
		MsgMissingImage:   "இலையின் புகைப்படத்தை எடுக்கவும் அல்லது பதிவேற்றவும்.",
		MsgChatApology:    "மன்னிக்கவும், இப்போது இதற்குப் பதிலளிக்க முடியவில்லை. மீண்டும் முயலவும்.",
		MsgChatFailed:     "வேளாண் நிபுணருடன் அரட்டை இப்போது கிடைக்கவில்லை.",
		MsgHistoryMissing: "இந்தப் பரிசோதனை இப்போது உங்கள் வரலாற்றில் இல்லை.",
	},
	model.Gujarati: {
		MsgConfiguration:  "ઍપ હજુ તૈયાર નથી: તપાસ સેવાની કી મળી નથી. કૃપા કરીને સહાયનો સંપર્ક કરો.",
		MsgAnalysis:       "અમે આ ફોટો તપાસી શક્યા નથી. ઇન્ટરનેટ તપાસો અને ફરી પ્રયાસ કરો.",
		MsgInvalidFormat:  "આ ફોટો માટે સ્પષ્ટ જવાબ મળ્યો નથી. કૃપા કરીને સ્પષ્ટ ફોટો સાથે ફરી પ્રયાસ કરો.",
		MsgCropMismatch:   "આ ફોટો તમે પસંદ કરેલા પાક જેવો લાગતો નથી.",
		MsgTTS:            "અવાજ હાલમાં ઉપલબ્ધ નથી.",
		MsgShare:          "શેર કરી શકાયું નથી. કૃપા કરીને ફરી પ્રયાસ કરો.",
		MsgStorage:        "આ તપાસ તમારા ઇતિહાસમાં સાચવી શકાઈ નથી.",
		MsgMissingCrop:    "કૃપા કરીને પહેલા પાક પસંદ કરો.",
		MsgMissingImage:   "કૃપા કરીને પાનનો ફોટો લો અથવા અપલોડ કરો.",
		MsgChatApology:    "માફ કરશો, હું હમણાં આનો જવાબ આપી શક્યો નથી. કૃપા કરીને ફરી પૂછો.",
		MsgChatFailed:     "કૃષિ નિષ્ણાત સાથે ચેટ હાલમાં ઉપલબ્ધ નથી.",
		MsgHistoryMissing: "આ તપાસ હવે તમારા ઇતિહાસમાં નથી.",
	},
	model.Kannada: {
		MsgConfiguration:  "ಆ್ಯಪ್ ಇನ್ನೂ ಸಿದ್ಧವಾಗಿಲ್ಲ: ಪರೀಕ್ಷಾ ಸೇವೆಯ ಕೀ ಇಲ್ಲ. ದಯವಿಟ್ಟು ಸಹಾಯವನ್ನು ಸಂಪರ್ಕಿಸಿ.",
		MsgAnalysis:       "ಈ ಫೋಟೋವನ್ನು ಪರೀಕ್ಷಿಸಲು ಆಗಲಿಲ್ಲ. ಇಂಟರ್ನೆಟ್ ಪರಿಶೀಲಿಸಿ ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ.",
		MsgInvalidFormat:  "ಈ ಫೋಟೋಗೆ ಸ್ಪಷ್ಟ ಉತ್ತರ ಸಿಗಲಿಲ್ಲ. ಸ್ಪಷ್ಟವಾದ ಫೋಟೋದೊಂದಿಗೆ ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ.",
		MsgCropMismatch:   "ಈ ಫೋಟೋ ನೀವು ಆಯ್ಕೆ ಮಾಡಿದ ಬೆಳೆಯಂತೆ ಕಾಣುತ್ತಿಲ್ಲ.",
		MsgTTS:            "ಧ್ವನಿ ಈಗ ಲಭ್ಯವಿಲ್ಲ.",
		MsgShare:          "ಹಂಚಿಕೊಳ್ಳಲು ಆಗಲಿಲ್ಲ. ಮತ್ತೆ ಪ್ರಯತ್ನಿಸಿ.",
		MsgStorage:        "ಈ ಪರೀಕ್ಷೆಯನ್ನು ನಿಮ್ಮ ಇತಿಹಾಸದಲ್ಲಿ ಉಳಿಸಲು ಆಗಲಿಲ್ಲ.",
		MsgMissingCrop:    "ದಯವಿಟ್ಟು ಮೊದಲು ಬೆಳೆಯನ್ನು ಆಯ್ಕೆ ಮಾಡಿ.",
		MsgMissingImage:   "ದಯವಿಟ್ಟು ಎಲೆಯ ಫೋಟೋ ತೆಗೆಯಿರಿ ಅಥವಾ ಅಪ್‌ಲೋಡ್ ಮಾಡಿ.",
		MsgChatApology:    "ಕ್ಷಮಿಸಿ, ಈಗ ಇದಕ್ಕೆ ಉತ್ತರಿಸಲು ಆಗಲಿಲ್ಲ. ಮತ್ತೆ ಕೇಳಿ.",
		MsgChatFailed:     "ಕೃಷಿ ತಜ್ಞರೊಂದಿಗೆ ಚಾಟ್ ಈಗ ಲಭ್ಯವಿಲ್ಲ.",
		MsgHistoryMissing: "ಈ ಪರೀಕ್ಷೆ ಈಗ ನಿಮ್ಮ ಇತಿಹಾಸದಲ್ಲಿ ಇಲ್ಲ.",
	},
	model.Malayalam: {
		MsgConfiguration:  "ആപ്പ് ഇതുവരെ തയ്യാറായിട്ടില്ല: പരിശോധനാ സേവനത്തിന്റെ കീ ഇല്ല. ദയവായി സഹായവുമായി ബന്ധപ്പെടുക.",
		MsgAnalysis:       "ഈ ഫോട്ടോ പരിശോധിക്കാൻ കഴിഞ്ഞില്ല. ഇന്റർനെറ്റ് പരിശോധിച്ച് വീണ്ടും ശ്രമിക്കുക.",
		MsgInvalidFormat:  "ഈ ഫോട്ടോയ്ക്ക് വ്യക്തമായ മറുപടി ലഭിച്ചില്ല. വ്യക്തമായ ഫോട്ടോ ഉപയോഗിച്ച് വീണ്ടും ശ്രമിക്കുക.",
		MsgCropMismatch:   "ഈ ഫോട്ടോ നിങ്ങൾ തിരഞ്ഞെടുത്ത വിള പോലെ തോന്നുന്നില്ല.",
		MsgTTS:            "ശബ്ദം ഇപ്പോൾ ലഭ്യമല്ല.",
		MsgShare:          "പങ്കിടാൻ കഴിഞ്ഞില്ല. വീണ്ടും ശ്രമിക്കുക.",
		MsgStorage:        "ഈ പരിശോധന നിങ്ങളുടെ ചരിത്രത്തിൽ സംരക്ഷിക്കാൻ കഴിഞ്ഞില്ല.",
		MsgMissingCrop:    "ദയവായി ആദ്യം ഒരു വിള തിരഞ്ഞെടുക്കുക.",
		MsgMissingImage:   "ദയവായി ഇലയുടെ ഫോട്ടോ എടുക്കുകയോ അപ്‌ലോഡ് ചെയ്യുകയോ ചെയ്യുക.",
		MsgChatApology:    "ക്ഷമിക്കണം, ഇപ്പോൾ ഇതിന് മറുപടി നൽകാൻ കഴിഞ്ഞില്ല. വീണ്ടും ചോദിക്കുക.",
		MsgChatFailed:     "കൃഷി വിദഗ്ധനുമായുള്ള ചാറ്റ് ഇപ്പോൾ ലഭ്യമല്ല.",
		MsgHistoryMissing: "ഈ പരിശോധന ഇപ്പോൾ നിങ്ങളുടെ ചരിത്രത്തിൽ ഇല്ല.",
	},
	model.Punjabi: {
		MsgConfiguration:  "ਐਪ ਅਜੇ ਤਿਆਰ ਨਹੀਂ ਹੈ: ਜਾਂਚ ਸੇਵਾ ਦੀ ਕੁੰਜੀ ਨਹੀਂ ਮਿਲੀ। ਕਿਰਪਾ ਕਰਕੇ ਸਹਾਇਤਾ ਨਾਲ ਸੰਪਰਕ ਕਰੋ।",
		MsgAnalysis:       "ਅਸੀਂ ਇਸ ਫੋਟੋ ਦੀ ਜਾਂਚ ਨਹੀਂ ਕਰ ਸਕੇ। ਇੰਟਰਨੈੱਟ ਦੇਖੋ ਅਤੇ ਦੁਬਾਰਾ ਕੋਸ਼ਿਸ਼ ਕਰੋ।",
		MsgInvalidFormat:  "ਇਸ ਫੋਟੋ ਲਈ ਸਪੱਸ਼ਟ ਜਵਾਬ ਨਹੀਂ ਮਿਲਿਆ। ਕਿਰਪਾ ਕਰਕੇ ਸਾਫ਼ ਫੋਟੋ ਨਾਲ ਦੁਬਾਰਾ ਕੋਸ਼ਿਸ਼ ਕਰੋ।",
		MsgCropMismatch:   "ਇਹ ਫੋਟੋ ਤੁਹਾਡੀ ਚੁਣੀ ਫ਼ਸਲ ਵਰਗੀ ਨਹੀਂ ਲੱਗਦੀ।",
		MsgTTS:            "ਆਵਾਜ਼ ਇਸ ਵੇਲੇ ਉਪਲਬਧ ਨਹੀਂ ਹੈ।",
		MsgShare:          "ਸਾਂਝਾ ਨਹੀਂ ਹੋ ਸਕਿਆ। ਕਿਰਪਾ ਕਰਕੇ ਦੁਬਾਰਾ ਕੋਸ਼ਿਸ਼ ਕਰੋ।",
		MsgStorage:        "ਇਹ ਜਾਂਚ ਤੁਹਾਡੇ ਇਤਿਹਾਸ ਵਿੱਚ ਸੰਭਾਲੀ ਨਹੀਂ ਜਾ ਸਕੀ।",
		MsgMissingCrop:    "ਕਿਰਪਾ ਕਰਕੇ ਪਹਿਲਾਂ ਫ਼ਸਲ ਚੁਣੋ।",
		MsgMissingImage:   "ਕਿਰਪਾ ਕਰਕੇ ਪੱਤੇ ਦੀ ਫੋਟੋ ਖਿੱਚੋ ਜਾਂ ਅੱਪਲੋਡ ਕਰੋ।",
		MsgChatApology:    "ਮਾਫ਼ ਕਰਨਾ, ਮੈਂ ਇਸ ਵੇਲੇ ਇਸਦਾ ਜਵਾਬ ਨਹੀਂ ਦੇ ਸਕਿਆ। ਕਿਰਪਾ ਕਰਕੇ ਦੁਬਾਰਾ ਪੁੱਛੋ।",
		MsgChatFailed:     "ਖੇਤੀ ਮਾਹਿਰ ਨਾਲ ਚੈਟ ਇਸ ਵੇਲੇ ਉਪਲਬਧ ਨਹੀਂ ਹੈ।",
		MsgHistoryMissing: "ਇਹ ਜਾਂਚ ਹੁਣ ਤੁਹਾਡੇ ਇਤਿਹਾਸ ਵਿੱਚ ਨਹੀਂ ਹੈ।",
	},
}

// Text returns the message for key in lang, falling back to English for
// unknown languages.
func Text(lang model.Language, key Key) string {
	if m, ok := table[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	return table[model.English][key]
}

// KeyForKind maps every failure kind to exactly one message key.
func KeyForKind(kind errx.Kind) Key {
	switch kind {
	case errx.KindConfiguration:
		return MsgConfiguration
	case errx.KindInvalidResponseFormat:
		return MsgInvalidFormat
	case errx.KindCropMismatch:
		return MsgCropMismatch
	case errx.KindTTS:
		return MsgTTS
	case errx.KindShare:
		return MsgShare
	case errx.KindStorage:
		return MsgStorage
	case errx.KindChat:
		return MsgChatFailed
	default:
		return MsgAnalysis
	}
}

// ErrorText is the localized message for err's kind.
func ErrorText(lang model.Language, err error) string {
	return Text(lang, KeyForKind(errx.KindOf(err)))
}
