package layout

import "testing"

func TestWorkCloneIndependent(t *testing.T) {
	w := NewWork([]Block{&VSpaceBlock{H: 5}})
	w.Skip(Location(1))
	w.Footnotes = append(w.Footnotes, &Footnote{Loc: 2})

	snap := w.Clone()

	w.Queue = w.Queue[1:]
	w.Skip(Location(3))
	w.Footnotes = nil
	w.Spill = &FootnoteSpill{Frames: []Frame{{}}}

	if len(snap.Queue) != 1 {
		t.Fatalf("快照队列应保持 1 个块，实际 %d", len(snap.Queue))
	}
	if snap.Skipped(Location(3)) {
		t.Fatalf("快照不应看到之后加入的承诺")
	}
	if !snap.Skipped(Location(1)) {
		t.Fatalf("快照应保留已有承诺")
	}
	if len(snap.Footnotes) != 1 || snap.Footnotes[0].Loc != 2 {
		t.Fatalf("快照脚注队列被污染: %+v", snap.Footnotes)
	}
	if snap.Spill != nil {
		t.Fatalf("快照不应看到之后设置的续排")
	}
}

func TestWorkRestore(t *testing.T) {
	w := NewWork([]Block{&VSpaceBlock{H: 5}, &VSpaceBlock{H: 3}})
	snap := w.Clone()

	w.Queue = nil
	w.Skip(Location(7))
	w.restore(snap)

	if len(w.Queue) != 2 {
		t.Fatalf("恢复后队列应有 2 个块，实际 %d", len(w.Queue))
	}
	if w.Skipped(Location(7)) {
		t.Fatalf("恢复应清除快照之后的承诺")
	}

	// 快照可以重复使用。
	w.Queue = nil
	w.restore(snap)
	if len(w.Queue) != 2 {
		t.Fatalf("快照应可重复恢复")
	}
}

func TestWorkDone(t *testing.T) {
	w := NewWork(nil)
	if !w.Done() {
		t.Fatalf("空工作状态应为完成")
	}
	w.Floats = append(w.Floats, &PlacedChild{})
	if w.Done() {
		t.Fatalf("有推迟的浮动块时不应完成")
	}
	w.Floats = nil
	w.Spill = &FootnoteSpill{}
	if w.Done() {
		t.Fatalf("有脚注续排时不应完成")
	}
}
