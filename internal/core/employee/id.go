package employee

// nextID は現在のコレクションの最大 ID + 1 を返します。空の場合は 1 です。
// 呼び出し側は挿入と同じ排他区間の中で呼び出す必要があります。
func nextID(records []Record) int64 {
	var maxID int64
	for _, r := range records {
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	return maxID + 1
}

func indexOf(records []Record, id int64) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
