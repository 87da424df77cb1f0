package whisperx

// runnerScript drives WhisperX. In "full" mode it transcribes and aligns the
// audio; in "align" mode it aligns segments read from --segments. The output
// document keeps WhisperX's own keys and adds the audio duration and the
// coarse segments as they were before alignment. Non-finite numbers are
// removed so the output is strict JSON.
const runnerScript = `
import argparse
import json
import math
import sys

try:
    import whisperx
except ImportError as exc:
    print(f"missing package: {exc}", file=sys.stderr)
    sys.exit(3)


def clean(value):
    if isinstance(value, float):
        return value if math.isfinite(value) else None
    if isinstance(value, dict):
        out = {}
        for key, item in value.items():
            item = clean(item)
            if item is not None:
                out[key] = item
        return out
    if isinstance(value, (list, tuple)):
        return [clean(item) for item in value]
    return value


def coarse(segments):
    return [
        {"start": seg.get("start"), "end": seg.get("end"), "text": seg.get("text", "")}
        for seg in segments
    ]


def main():
    parser = argparse.ArgumentParser()
    parser.add_argument("audio")
    parser.add_argument("--output", required=True)
    parser.add_argument("--mode", choices=["full", "align"], default="full")
    parser.add_argument("--segments")
    parser.add_argument("--model", default="base")
    parser.add_argument("--language", default=None)
    parser.add_argument("--device", default="cpu")
    parser.add_argument("--batch-size", type=int, default=16)
    parser.add_argument("--compute-type", default="float32")
    parser.add_argument("--chars", action="store_true")
    args = parser.parse_args()

    audio = whisperx.load_audio(args.audio)
    duration = len(audio) / float(whisperx.audio.SAMPLE_RATE)

    if args.mode == "full":
        model = whisperx.load_model(
            args.model, args.device, compute_type=args.compute_type, language=args.language
        )
        result = model.transcribe(audio, batch_size=args.batch_size)
        language = result.get("language") or args.language
        segments = result.get("segments", [])
    else:
        if not args.segments:
            raise SystemExit("--segments is required in align mode")
        with open(args.segments, "r", encoding="utf-8") as handle:
            segments = json.load(handle)
        language = args.language

    if not language:
        raise SystemExit("language is required for alignment")

    aligned = {"segments": [], "word_segments": []}
    if segments:
        align_model, metadata = whisperx.load_align_model(language_code=language, device=args.device)
        aligned = whisperx.align(
            segments, align_model, metadata, audio, args.device, return_char_alignments=args.chars
        )

    aligned_segments = aligned.get("segments", [])
    document = {
        "language": language,
        "duration": duration,
        "transcribed_segments": coarse(segments),
        "segments": aligned_segments,
        "word_segments": aligned.get("word_segments", []),
        "text": " ".join(seg.get("text", "").strip() for seg in aligned_segments).strip(),
    }
    with open(args.output, "w", encoding="utf-8") as handle:
        json.dump(clean(document), handle, allow_nan=False)


if __name__ == "__main__":
    main()
`
