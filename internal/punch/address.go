package punch

import "strings"

// ShortLocation は打刻の location フィールド用の短縮形。
// street があれば "street, city"、なければ city のみ。
func ShortLocation(street, city string) string {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	if street == "" {
		return city
	}
	if city == "" {
		return street
	}
	return street + ", " + city
}

// FormatAddress は remarks 用の完全形住所。空の構成要素は飛ばし、
// 区切りが先頭・末尾・連続に残らないようにする。
func FormatAddress(street, city, region, country string) string {
	parts := make([]string, 0, 4)
	for _, p := range []string{street, city, region, country} {
		if s := strings.TrimSpace(p); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}
