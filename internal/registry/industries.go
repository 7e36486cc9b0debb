package registry

import (
	"fmt"
	"sort"
)

// Industry classification reference data. The item and sub-item lists mirror
// the shared document's curated taxonomy; entry commands validate against
// them so the report columns stay groupable.
var IndustryItems = map[string][]string{
	"소재":    {"세라믹", "금속", "화학", "섬유"},
	"기계로봇":  {"공작기계", "일반산업기계", "건설기계", "금형", "로봇"},
	"바이오":   {"바이오_의약", "의료기기"},
	"자동차운송": {"자동차_내연기관", "항공", "미래운송_드론_미래차", "전기차", "수소차", "자율차"},
	"전기전자":  {"전자소자부품_제품", "광_레이저", "반도체디스플레이", "이차전지_에너지", "디지털제조"},
	"조선해양":  {"조선", "해양"},
	"디자인":   {"디자인_"},
}

var ItemSubItems = map[string][]string{
	"세라믹":         {"후막(적층) 공정", "유리(용융/코팅) 공정", "단결정 공정", "극한환경 공정", "박막 공정"},
	"금속":          {"철강소재", "비철소재"},
	"화학":          {"고분자(플라스틱)", "정밀화학", "화학공정(석유화학)"},
	"섬유":          {"의류용", "산업용", "생활용"},
	"공작기계":        {"공작기계"},
	"일반산업기계":      {"일반산업기계"},
	"건설기계":        {"건설기계"},
	"금형":          {"금형"},
	"로봇":          {"제조업용 로봇", "전문 서비스용 로봇", "개인 서비스용 로봇", "로봇부품"},
	"바이오_의약":      {"의약품", "화장품", "식품(기능성식품 포함)"},
	"의료기기":        {"치료수술 기기·시스템", "기능복원·보조기기", "영상의료 기기·시스템", "진단의료 기기·시스템"},
	"자동차_내연기관":    {"동력발생장치", "동력전달장치", "제동장치", "차체", "조향장치", "전기전자", "장치부품", "전기장치", "현가장치"},
	"항공":          {"항공부품"},
	"미래운송_드론_미래차": {"드론 완제품/부품", "미래차 완제품/부품"},
	"전기차":         {"구동부품모듈", "센서제어부품모듈", "배터리패키징부품모듈", "섀시 및 의장 모듈", "SW", "기타 소재부품모듈", "완성차"},
	"수소차":         {"구동부품모듈", "센서제어부품모듈", "배터리패키징부품모듈", "섀시 및 의장 모듈", "SW", "기타 소재부품모듈", "완성차"},
	"자율차":         {"구동부품모듈", "센서제어부품모듈", "배터리패키징부품모듈", "섀시 및 의장 모듈", "SW", "기타 소재부품모듈", "완성차"},
	"전자소자부품_제품":   {"전기전자부품", "소형가전"},
	"광_레이저":       {"광(조명)", "레이저"},
	"반도체디스플레이":    {"반도체", "디스플레이"},
	"이차전지_에너지":    {"이차전지", "에너지"},
	"디지털제조":       {"디지털제조"},
	"조선":          {"자율운항 선박", "친환경연료추진 선박", "전기추진 선박", "수소연료전지추진 선박", "하이브리드 선박", "친환경 고효율 선박"},
	"해양":          {"가스오일 생산플랜트", "해양에너지플랜트", "극지해양플랜트", "스마트 야드"},
	"디자인_":        {"디자인"},
}

func Industries() []string {
	out := make([]string, 0, len(IndustryItems))
	for industry := range IndustryItems {
		out = append(out, industry)
	}
	sort.Strings(out)
	return out
}

// ValidateClassification checks industry/item/sub-item against the taxonomy.
// Items without a curated sub-item list accept free text, matching the entry
// form's fallback to direct input.
func ValidateClassification(industry, item, subItem string) error {
	items, ok := IndustryItems[industry]
	if !ok {
		return fmt.Errorf("unknown industry: %s", industry)
	}
	if !contains(items, item) {
		return fmt.Errorf("item %q is not registered under industry %q", item, industry)
	}
	subs, ok := ItemSubItems[item]
	if !ok || len(subs) == 0 {
		return nil
	}
	if subItem != "" && !contains(subs, subItem) {
		return fmt.Errorf("sub-item %q is not registered under item %q", subItem, item)
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
