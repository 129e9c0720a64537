package bot

// User-facing status text. Short, one line where possible; sizes are
// appended by the callers that know them.
const (
	msgWelcome = "👋 Hi!\n\n" +
		"🤖 *PT Bot* can download:\n" +
		"• YouTube (MP4 / MP3)\n" +
		"• TikTok (MP4)\n" +
		"• Facebook (MP4)\n" +
		"• Instagram (MP4)\n\n" +
		"📌 Send a link to start a download"

	msgHelp = "📚 *How to use the bot*\n\n" +
		"1️⃣ Send a YouTube / TikTok / Facebook / Instagram link\n" +
		"2️⃣ For YouTube, pick MP4 or MP3\n" +
		"3️⃣ The bot downloads and sends the file with its size\n\n" +
		"✅ YouTube: MP4 or MP3\n" +
		"✅ TikTok, Facebook, Instagram: MP4 only"

	msgChooseFormat   = "📌 Pick a YouTube format:"
	msgDownloading    = "⏳ Downloading…"
	msgUnsupported    = "❌ This link is not supported"
	msgDownloadFailed = "❌ Download failed"
	msgBadCallback    = "❌ This button is no longer valid"
	msgNotAdmin       = "❌ Admins only"
	msgBroadcastUsage = "📣 Usage:\n/broadcast your message"

	labelHelp  = "💡 Help"
	labelVideo = "🎬 MP4 video"
	labelAudio = "🎵 MP3 audio"

	// Callback payload of the welcome screen's help button. Not an encoded
	// download token; checked before token decoding.
	helpCallbackData = "help"
)
