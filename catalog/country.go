package catalog

// 国家 → 风格摘要词。只进响应的 summary 文案，不参与任何向量计算
// （冷启动的向量口径只由性别与品类的原型决定）。
var countryStyles = map[string][]string{
	"United States":  {"casual", "trendy", "comfortable"},
	"Canada":         {"casual", "practical", "comfortable"},
	"United Kingdom": {"classic", "elegant", "sophisticated"},
	"Germany":        {"minimalist", "practical", "structured"},
	"France":         {"elegant", "sophisticated", "chic"},
	"Italy":          {"elegant", "stylish", "luxury"},
	"Japan":          {"minimalist", "modern", "clean"},
	"China":          {"modern", "trendy", "sophisticated"},
	"India":          {"colorful", "traditional", "vibrant"},
	"South Korea":    {"trendy", "modern", "youthful"},
	"Brazil":         {"colorful", "creative", "bold"},
	"Argentina":      {"elegant", "classic", "refined"},
	"Nigeria":        {"colorful", "traditional", "vibrant"},
	"South Africa":   {"casual", "colorful", "outdoor"},
	"Australia":      {"casual", "comfortable", "outdoor"},
	"New Zealand":    {"casual", "practical", "outdoor"},
	"US":             {"casual", "trendy", "comfortable"},
	"UK":             {"classic", "elegant", "sophisticated"},
}

// CountryStyleWords 返回国家对应的风格摘要词；未知国家返回通用词。
func CountryStyleWords(country string) []string {
	if words, ok := countryStyles[country]; ok {
		return words
	}
	return []string{"casual", "comfortable"}
}
