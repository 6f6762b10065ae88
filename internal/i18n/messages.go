package i18n

var english = map[Key]string{
	ErrBadInput:     "The file is not supported or is corrupted",
	ErrUnauthorized: "The API key is invalid or has expired",
	ErrTooLarge:     "The file is too large. The maximum is 100MB",
	ErrRateLimited:  "Rate limit exceeded. Wait a minute and try again",
	ErrServer:       "Server error. Please try again later",
	ErrTimeout:      "The connection timed out. Please try again",
	ErrNetwork:      "Could not reach the server. Check your internet connection",
	ErrUnknown:      "Server error (%d)",
	ErrUnexpected:   "An unexpected error occurred",
	ErrKeyCreate:    "Failed to generate API key",

	ToastPlatesFound:  "Found %d plate(s)",
	ToastImageDone:    "Analysis finished",
	ToastVideoDone:    "Video processed successfully",
	ToastKeyGenerated: "API key generated successfully",

	NotAvailable:   "N/A",
	PlateNotFound:  "No license plate was found in the image",
	SuggestClearer: "Use a clearer image of the plate",
	SuggestVisible: "Make sure the whole plate is inside the frame",
	SuggestLight:   "Improve the lighting and avoid reflections",

	BadgeTrusted:     "Trusted",
	BadgeNeedsReview: "Needs review",
	BadgeWeak:        "Weak",

	"color.blue":   "Blue",
	"color.yellow": "Yellow",
	"color.white":  "White",
	"color.red":    "Red",

	"plate_type.private":    "Private",
	"plate_type.commercial": "Commercial",
	"plate_type.taxi":       "Taxi",
	"plate_type.government": "Government",
	"plate_type.temporary":  "Temporary",

	"vehicle.car":     "Car",
	"vehicle.pickup":  "Pickup",
	"vehicle.truck":   "Truck",
	"vehicle.vehicle": "Vehicle",

	"governorate.1":  "Amanat Al Asimah",
	"governorate.2":  "Sana'a",
	"governorate.3":  "Taiz",
	"governorate.4":  "Aden",
	"governorate.5":  "Al Hudaydah",
	"governorate.6":  "Ibb",
	"governorate.7":  "Dhamar",
	"governorate.8":  "Hadramaut",
	"governorate.9":  "Lahij",
	"governorate.10": "Abyan",
	"governorate.11": "Shabwah",
	"governorate.12": "Al Mahrah",
	"governorate.13": "Al Jawf",
	"governorate.14": "Marib",
	"governorate.15": "Raymah",
	"governorate.16": "Al Mahwit",
	"governorate.17": "Hajjah",
	"governorate.18": "Saada",
	"governorate.19": "Al Bayda",
	"governorate.20": "Socotra",
}

var arabic = map[Key]string{
	ErrBadInput:     "الملف غير مدعوم أو تالف",
	ErrUnauthorized: "مفتاح API غير صحيح أو منتهي الصلاحية",
	ErrTooLarge:     "حجم الملف كبير جداً. الحد الأقصى 100MB",
	ErrRateLimited:  "تجاوزت الحد المسموح. انتظر دقيقة وحاول مجدداً",
	ErrServer:       "خطأ في الخادم. يرجى المحاولة لاحقاً",
	ErrTimeout:      "انتهت مهلة الاتصال. يرجى المحاولة مرة أخرى",
	ErrNetwork:      "فشل الاتصال بالخادم. تحقق من الاتصال بالإنترنت",
	ErrUnknown:      "خطأ في الخادم (%d)",
	ErrUnexpected:   "حدث خطأ غير متوقع",
	ErrKeyCreate:    "فشل إنشاء مفتاح API",

	ToastPlatesFound:  "تم العثور على %d لوحة",
	ToastImageDone:    "تم الانتهاء من التحليل",
	ToastVideoDone:    "تم معالجة الفيديو بنجاح",
	ToastKeyGenerated: "تم إنشاء مفتاح API بنجاح",

	NotAvailable:   "غير متوفر",
	PlateNotFound:  "لم يتم العثور على لوحة ترخيص في الصورة",
	SuggestClearer: "استخدم صورة أوضح للوحة",
	SuggestVisible: "تأكد أن اللوحة ظاهرة بالكامل في الإطار",
	SuggestLight:   "حسّن الإضاءة وتجنب الانعكاس",

	BadgeTrusted:     "موثوق",
	BadgeNeedsReview: "يحتاج مراجعة",
	BadgeWeak:        "ضعيف",

	"color.blue":   "أزرق",
	"color.yellow": "أصفر",
	"color.white":  "أبيض",
	"color.red":    "أحمر",

	"plate_type.private":    "خصوصي",
	"plate_type.commercial": "نقل",
	"plate_type.taxi":       "أجرة",
	"plate_type.government": "حكومي",
	"plate_type.temporary":  "مؤقت",

	"governorate.1":  "أمانة العاصمة",
	"governorate.2":  "محافظة صنعاء",
	"governorate.3":  "تعز",
	"governorate.4":  "عدن",
	"governorate.5":  "الحديدة",
	"governorate.6":  "إب",
	"governorate.7":  "ذمار",
	"governorate.8":  "حضرموت",
	"governorate.9":  "لحج",
	"governorate.10": "أبين",
	"governorate.11": "شبوة",
	"governorate.12": "المهرة",
	"governorate.13": "الجوف",
	"governorate.14": "مأرب",
	"governorate.15": "ريمة",
	"governorate.16": "المحويت",
	"governorate.17": "حجة",
	"governorate.18": "صعدة",
	"governorate.19": "البيضاء",
	"governorate.20": "سقطرى",
}
