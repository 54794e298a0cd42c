package validation

import "strings"

var escaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces HTML-significant characters with entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

var (
	gmailDomains   = domainSet("gmail.com googlemail.com")
	icloudDomains  = domainSet("icloud.com me.com")
	outlookDomains = domainSet(`hotmail.at hotmail.be hotmail.ca hotmail.cl hotmail.co.il
		hotmail.co.nz hotmail.co.th hotmail.co.uk hotmail.com
		hotmail.com.ar hotmail.com.au hotmail.com.br hotmail.com.gr
		hotmail.com.mx hotmail.com.pe hotmail.com.tr hotmail.com.vn
		hotmail.cz hotmail.de hotmail.dk hotmail.es hotmail.fr
		hotmail.hu hotmail.id hotmail.ie hotmail.in hotmail.it
		hotmail.jp hotmail.kr hotmail.lv hotmail.my hotmail.ph
		hotmail.pt hotmail.sa hotmail.sg hotmail.sk live.be live.co.uk
		live.com live.com.ar live.com.mx live.de live.es live.eu live.fr
		live.it live.nl msn.com outlook.at outlook.be outlook.cl
		outlook.co.il outlook.co.nz outlook.co.th outlook.com
		outlook.com.ar outlook.com.au outlook.com.br outlook.com.gr
		outlook.com.pe outlook.com.tr outlook.com.vn outlook.cz
		outlook.de outlook.dk outlook.es outlook.fr outlook.hu
		outlook.id outlook.ie outlook.in outlook.it outlook.jp
		outlook.kr outlook.lv outlook.my outlook.ph outlook.pt
		outlook.sa outlook.sg outlook.sk passport.com`)
	yahooDomains   = domainSet("rocketmail.com yahoo.ca yahoo.co.uk yahoo.com yahoo.de yahoo.fr yahoo.in yahoo.it ymail.com")
	yandexDomains  = domainSet("yandex.ru yandex.ua yandex.kz yandex.com yandex.by ya.ru")
)

func domainSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, d := range strings.Fields(list) {
		set[d] = true
	}
	return set
}

// NormalizeEmail canonicalizes an address: lowercase, and for the large
// providers strip sub-addresses (and dots for gmail). Values without an @
// are returned unchanged.
func NormalizeEmail(s string) string {
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return s
	}
	local := strings.ToLower(s[:at])
	domain := strings.ToLower(s[at+1:])

	switch {
	case gmailDomains[domain]:
		local = cutAt(local, "+")
		local = strings.ReplaceAll(local, ".", "")
		domain = "gmail.com"
	case icloudDomains[domain], outlookDomains[domain]:
		local = cutAt(local, "+")
	case yahooDomains[domain]:
		// only the last "-" segment is the sub-address
		if i := strings.LastIndex(local, "-"); i >= 0 {
			local = local[:i]
		}
	case yandexDomains[domain]:
		domain = "yandex.ru"
	}
	if local == "" {
		return s
	}
	return local + "@" + domain
}

func cutAt(s, sep string) string {
	before, _, _ := strings.Cut(s, sep)
	return before
}
