// Package backup holds the pre-written poem templates served when no LLM
// provider produces text.
package backup

import (
	"strings"

	"moodpoet/internal/domain"
)

// MoodPlaceholder is replaced with the user's mood in every template.
const MoodPlaceholder = "{mood}"

var templates = map[domain.Poet][]string{
	domain.PoetLiBai: {
		"{mood}如高山流水，意境深远。\n人生得意须尽欢，莫使金樽空对月。\n天生我材必有用，千金散尽还复来。",
		"{mood}似碧空云彩，变幻无常。\n抽刀断水水更流，举杯消愁愁更愁。\n人生如梦，一尊还酹江月。",
		"{mood}如飞花落叶，转瞬即逝。\n行路难，行路难，多歧路，今安在？\n长风破浪会有时，直挂云帆济沧海。",
	},
	domain.PoetDuFu: {
		"{mood}如细雨绵绵，润物无声。\n安得广厦千万间，大庇天下寒士俱欢颜。\n会当凌绝顶，一览众山小。",
		"{mood}似江河奔流，不舍昼夜。\n国破山河在，城春草木深。\n穷且益坚，不坠青云之志。",
		"{mood}如冬日暖阳，温暖人心。\n朱门酒肉臭，路有冻死骨。\n岁暮到家未，人间多薄情。",
	},
	domain.PoetSuShi: {
		"{mood}如明月清风，超然物外。\n人有悲欢离合，月有阴晴圆缺，此事古难全。\n但愿人长久，千里共婵娟。",
		"{mood}似东坡月色，旷达随和。\n大江东去，浪淘尽，千古风流人物。\n莫听穿林打叶声，何妨吟啸且徐行。",
		"{mood}如赤壁夜游，缥缈如梦。\n竹杖芒鞋轻胜马，谁怕？一蓑烟雨任平生。\n回首向来萧瑟处，归去，也无风雨也无晴。",
	},
	domain.PoetLiQingzhao: {
		"{mood}如梅花暗香，幽而不失其韵。\n知否？知否？应是绿肥红瘦。\n此情无计可消除，才下眉头，却上心头。",
		"{mood}似昨夜残灯，思绪绵长。\n莫道不消魂，帘卷西风，人比黄花瘦。\n生当作人杰，死亦为鬼雄。",
		"{mood}如雨打芭蕉，声声不息。\n寻寻觅觅，冷冷清清，凄凄惨惨戚戚。\n天不老，情难绝，心似双丝网。",
	},
	domain.PoetBaiJuyi: {
		"{mood}如庐山烟雨，亦真亦幻。\n离离原上草，一岁一枯荣。野火烧不尽，春风吹又生。\n未觉池塘春草梦，阶前梧叶已秋声。",
		"{mood}似长安古道，沧桑历尽。\n日出江花红胜火，春来江水绿如蓝。\n长恨人心不如水，等闲平地起波澜。",
		"{mood}如细雨湿衣，润物无声。\n同是天涯沦落人，相逢何必曾相识。\n可怜夜半虚前席，不问苍生问鬼神。",
	},
}

// Store serves backup poems. It is safe for concurrent use when rng is.
type Store struct {
	rng domain.Rand
}

// New creates a Store drawing its random choices from rng.
func New(rng domain.Rand) *Store {
	return &Store{rng: rng}
}

// Get returns one of poet's templates with the mood substituted. An
// unrecognized poet is replaced by a random recognized one. Get never fails.
func (s *Store) Get(poet domain.Poet, mood string) string {
	if !poet.IsKnown() {
		poet = domain.RandomPoet(s.rng)
	}
	choices := templates[poet]
	tmpl := choices[s.rng.IntN(len(choices))]
	return strings.ReplaceAll(tmpl, MoodPlaceholder, mood)
}

// Templates returns a copy of poet's raw templates, or nil for an
// unrecognized poet.
func Templates(poet domain.Poet) []string {
	choices, ok := templates[poet]
	if !ok {
		return nil
	}
	out := make([]string, len(choices))
	copy(out, choices)
	return out
}
