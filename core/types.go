package core

// ItemID 是被排名对象的唯一标识，只做 key 使用，本身没有顺序。
type ItemID = string

// ScoreVector 是单个 item 在各指标上的原始分数，每个位置对应一个指标（metric slot）。
type ScoreVector []float64

// ScoreTable 是 item -> 分数向量。同一张表里所有 ScoreVector 长度必须一致。
type ScoreTable map[ItemID]ScoreVector

// RankVector 与 ScoreVector 按位置对齐，rank 从 1 开始，1 表示该指标上分数最高。
type RankVector []int

// RankTable 是 item -> 排名向量，key 集合与来源 ScoreTable 相同。
type RankTable map[ItemID]RankVector

// ProposedOrdering 是调用方给出的候选共识排序，第一个元素即 rank 1。
type ProposedOrdering []ItemID

// Distance 是 Spearman footrule 距离（非负）。
type Distance = int

// IDs 返回表中所有 item id（无序）。
func (t ScoreTable) IDs() []ItemID {
	ids := make([]ItemID, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	return ids
}
