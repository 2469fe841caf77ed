package readertools

// TriggerPoint 触发点：单元ID到媒体文件的关联（来自数据库的稀疏集合）
type TriggerPoint struct {
	UnitID   string // 目标单元ID
	Kind     string // 媒体类型：image, audio
	Filename string // 逻辑文件名（裸文件名）
}

// AnnotatedUnit 带注解的文本单元：单元本身加可选的媒体引用
type AnnotatedUnit struct {
	Unit

	// Media 命中的触发点；无命中时为 nil（按普通文本渲染）
	Media *TriggerPoint

	// Divider 场景边界分隔单元（章节视图中插入，本身不含文本，
	// 其出现位置同样是一个触发位点）
	Divider bool
}

// Document 注解文档：有序单元序列及文档级默认媒体
type Document struct {
	SceneID string          // 场景ID（合并后的章节文档为空）
	Units   []AnnotatedUnit // 文档顺序的单元序列

	// Default 文档默认媒体：文档顺序中第一个携带媒体引用的单元的引用，
	// 作为滚动激活前的初始展示资产；全文无触发点时为 nil，
	// 由调用方决定占位资产
	Default *TriggerPoint
}

// Annotate 将有序单元序列与该场景的触发点集合合并为注解文档
//
// 匹配规则：
//   - 单元ID与触发点 unit_id 精确相等
//   - 每个单元最多应用一个触发点；存储中存在重复 unit_id 时取第一个
//     （确定的决胜规则，不是未定义行为）
//   - unit_id 指向不存在单元的触发点静默失效，永不报错
//   - 未命中的单元原样通过
func Annotate(sceneID string, units []Unit, points []TriggerPoint) Document {
	// 预构建 unit_id → 触发点映射，每个单元 O(1) 查找；首个占位生效
	byUnit := make(map[string]*TriggerPoint, len(points))
	for i := range points {
		p := &points[i]
		if _, ok := byUnit[p.UnitID]; !ok {
			byUnit[p.UnitID] = p
		}
	}

	doc := Document{
		SceneID: sceneID,
		Units:   make([]AnnotatedUnit, 0, len(units)),
	}
	for _, u := range units {
		au := AnnotatedUnit{Unit: u}
		if p, ok := byUnit[u.ID]; ok {
			ref := *p
			au.Media = &ref
			if doc.Default == nil {
				doc.Default = &ref
			}
		}
		doc.Units = append(doc.Units, au)
	}
	return doc
}

// DividerUnitID 生成场景边界分隔单元ID
func DividerUnitID(sceneID string) string {
	return "div-" + sceneID
}

// MergeDocuments 将按场景顺序排列的注解文档合并为章节级文档
// 相邻场景之间插入一个场景边界分隔单元；默认媒体取合并后
// 文档顺序中的第一个媒体引用
func MergeDocuments(docs []Document) Document {
	merged := Document{}
	for i, d := range docs {
		if i > 0 {
			merged.Units = append(merged.Units, AnnotatedUnit{
				Unit:    Unit{ID: DividerUnitID(d.SceneID)},
				Divider: true,
			})
		}
		merged.Units = append(merged.Units, d.Units...)
		if merged.Default == nil && d.Default != nil {
			merged.Default = d.Default
		}
	}
	return merged
}
